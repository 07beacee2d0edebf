package common

import (
	"fmt"

	"mikune/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Ephemeral   bool   // Whether the error message should be ephemeral
	Err         error  // Underlying error
	Context     any    // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// IsUserError reports whether the error was caused by the user's input
func (e *BotError) IsUserError() bool {
	return e.Err == nil
}

// NewUserError creates an error for user-caused issues (validation, insufficient funds, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// FromServiceError converts a service failure into a BotError. Economy
// rejections keep their reason verbatim; anything else is a system error.
func FromServiceError(err error, logMessage string) *BotError {
	if econErr, ok := service.AsEconomyError(err); ok {
		botErr := NewUserError(econErr.Error(), logMessage)
		botErr.Context = map[string]any{"kind": econErr.Kind}
		return botErr
	}
	return NewSystemError(err, logMessage)
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError processes a BotError and responds appropriately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	command := i.ApplicationCommandData().Name

	botErr, ok := err.(*BotError)
	if !ok {
		botErr = NewSystemError(err, "Unexpected error in bot command")
	}

	fields := log.Fields{
		"user_id":      InteractionUserID(i),
		"command":      command,
		"error":        botErr.Error(),
		"user_message": botErr.UserMessage,
		"context":      botErr.Context,
	}
	if botErr.IsUserError() {
		log.WithFields(fields).Debug(botErr.LogMessage)
	} else {
		log.WithFields(fields).Error(botErr.LogMessage)
	}

	if deferred {
		FollowUpWithError(s, i, botErr.UserMessage)
	} else {
		RespondWithError(s, i, botErr.UserMessage)
	}
}

type deferredError struct {
	err error
}

func (e *deferredError) Error() string { return e.err.Error() }
func (e *deferredError) Unwrap() error { return e.err }

// Deferred marks err as raised after the interaction response was deferred,
// so it must be delivered as a follow-up
func Deferred(err error) error {
	if err == nil {
		return nil
	}
	return &deferredError{err: err}
}

// UnwrapDeferred reports whether err was marked with Deferred and returns the original error
func UnwrapDeferred(err error) (error, bool) {
	if d, ok := err.(*deferredError); ok {
		return d.err, true
	}
	return err, false
}
