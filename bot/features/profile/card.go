package profile

import (
	"bytes"
	"fmt"

	"mikune/bot/common"
	"mikune/models"
	"mikune/service"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	cardWidth  = 480
	cardHeight = 200
)

// CardData is everything drawn on a profile card
type CardData struct {
	Name       string
	Level      int
	XP         int64
	XPNeeded   int64
	Balance    int64
	Bank       int64
	NetWorth   int64
	Job        string
	Properties int
	Loans      int
}

// NewCardData extracts card fields from an account
func NewCardData(name string, account *models.Account) CardData {
	job := "unemployed"
	if account.Job != nil {
		job = *account.Job
	}
	return CardData{
		Name:       name,
		Level:      account.Level,
		XP:         account.XP,
		XPNeeded:   service.XPThreshold(account.Level),
		Balance:    account.Balance,
		Bank:       account.Bank,
		NetWorth:   account.NetWorth(),
		Job:        job,
		Properties: len(account.Properties),
		Loans:      len(account.ActiveLoans()),
	}
}

// RenderCard draws a profile card as PNG
func RenderCard(data CardData) ([]byte, error) {
	dc := gg.NewContext(cardWidth, cardHeight)
	common.DrawGradientBackground(dc, cardWidth, cardHeight)

	titleFace, err := common.LoadFont(gobold.TTF, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	bodyFace, err := common.LoadFont(gomono.TTF, 12)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	// Accent stripe
	dc.SetRGB(0.95, 0.55, 0.16)
	dc.DrawRectangle(0, 0, 6, cardHeight)
	dc.Fill()

	dc.SetFontFace(titleFace)
	dc.SetRGB(1, 1, 1)
	common.DrawSharpText(dc, common.TruncateName(data.Name, 24), 24, 36)

	dc.SetFontFace(bodyFace)
	dc.SetRGB(0.8, 0.8, 0.9)
	common.DrawSharpText(dc, fmt.Sprintf("Level %d · %s", data.Level, data.Job), 24, 58)

	// XP bar
	barX, barY, barW, barH := 24.0, 72.0, float64(cardWidth-48), 12.0
	dc.SetRGBA(1, 1, 1, 0.1)
	dc.DrawRoundedRectangle(barX, barY, barW, barH, 6)
	dc.Fill()
	if data.XPNeeded > 0 && data.XP > 0 {
		fill := float64(data.XP) / float64(data.XPNeeded)
		if fill > 1 {
			fill = 1
		}
		dc.SetRGB(0.95, 0.55, 0.16)
		dc.DrawRoundedRectangle(barX, barY, barW*fill, barH, 6)
		dc.Fill()
	}
	dc.SetRGB(0.7, 0.7, 0.75)
	dc.DrawStringAnchored(fmt.Sprintf("%d / %d XP", data.XP, data.XPNeeded), barX+barW, barY+barH+14, 1, 0)

	stats := []struct {
		label string
		value string
	}{
		{"Wallet", common.FormatBalance(data.Balance)},
		{"Bank", common.FormatBalance(data.Bank)},
		{"Net worth", common.FormatBalance(data.NetWorth)},
		{"Properties", fmt.Sprintf("%d", data.Properties)},
		{"Loans", fmt.Sprintf("%d", data.Loans)},
	}
	colWidth := float64(cardWidth-48) / 3
	for idx, stat := range stats {
		x := 24 + float64(idx%3)*colWidth
		y := 130 + float64(idx/3)*40

		dc.SetRGB(0.6, 0.6, 0.7)
		common.DrawSharpText(dc, stat.label, x, y)
		dc.SetRGB(0.85, 1.0, 0.85)
		common.DrawSharpText(dc, stat.value, x, y+16)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
