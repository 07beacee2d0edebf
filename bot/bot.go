package bot

import (
	"fmt"
	"time"

	"mikune/bot/common"
	"mikune/bot/features/bank"
	"mikune/bot/features/leaderboard"
	"mikune/bot/features/loans"
	"mikune/bot/features/profile"
	"mikune/bot/features/properties"
	"mikune/bot/features/rewards"
	"mikune/bot/features/shop"
	"mikune/config"
	"mikune/observability"
	"mikune/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token   string
	GuildID string // empty registers commands globally
}

// Services groups the economy services the bot exposes
type Services struct {
	Accounts   service.AccountService
	Ledger     service.LedgerService
	Loans      service.LoanService
	Properties service.PropertyService
	Rewards    service.RewardService
	Shop       service.ShopService
}

// Feature handles one or more slash commands
type Feature interface {
	Commands() []string
	HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) error
}

type Bot struct {
	config  Config
	session *discordgo.Session
	routes  map[string]Feature
	metrics *observability.MetricsProvider
}

func New(cfg Config, appConfig *config.Config, services Services, metrics *observability.MetricsProvider) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	bot := &Bot{
		config:  cfg,
		session: dg,
		routes:  buildRoutes(newFeatures(appConfig, services)),
		metrics: metrics,
	}

	dg.AddHandler(bot.handleCommands)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	log.WithField("commands", len(bot.routes)).Info("Discord bot connected")
	return bot, nil
}

func newFeatures(cfg *config.Config, services Services) []Feature {
	return []Feature{
		bank.New(services.Accounts, services.Ledger, cfg),
		loans.New(services.Loans, cfg),
		properties.New(services.Properties, cfg),
		rewards.New(services.Rewards),
		shop.New(services.Shop),
		profile.New(services.Accounts),
		leaderboard.New(services.Accounts),
	}
}

func buildRoutes(features []Feature) map[string]Feature {
	routes := make(map[string]Feature)
	for _, feature := range features {
		for _, name := range feature.Commands() {
			routes[name] = feature
		}
	}
	return routes
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	feature, ok := b.routes[name]
	if !ok {
		log.WithField("command", name).Warn("Received unknown command")
		return
	}

	start := time.Now()
	err := feature.HandleCommand(s, i)
	b.metrics.RecordCommand(name, commandOutcome(err), time.Since(start))

	if err != nil {
		err, deferred := common.UnwrapDeferred(err)
		common.HandleError(s, i, err, deferred)
	}
}

func commandOutcome(err error) string {
	if err == nil {
		return observability.OutcomeSuccess
	}
	err, _ = common.UnwrapDeferred(err)
	if botErr, ok := err.(*common.BotError); ok && botErr.IsUserError() {
		return observability.OutcomeRejected
	}
	return observability.OutcomeError
}
