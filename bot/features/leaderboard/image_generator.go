package leaderboard

import (
	"bytes"
	"fmt"
	"time"

	"mikune/bot/common"
	"mikune/models"

	"github.com/fogleman/gg"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// TableColumn defines a column in the leaderboard table
type TableColumn struct {
	Header    string
	XPosition int
	ColorRGB  [3]float64
	Sorted    bool // Whether the board is ranked by this column
}

// TableRow represents a single row of data
type TableRow struct {
	Rank int
	Data []string
}

// TableStyle defines the visual style of the table
type TableStyle struct {
	Width           int
	MinHeight       int
	Padding         int
	RowHeight       int
	HighlightColors [3][4]float64 // gold, silver, bronze RGBA
}

// ImageGenerator renders leaderboards as PNG tables
type ImageGenerator struct {
	style TableStyle
}

// NewImageGenerator creates a new image generator with default style
func NewImageGenerator() *ImageGenerator {
	return &ImageGenerator{
		style: TableStyle{
			Width:     400,
			MinHeight: 120,
			Padding:   15,
			RowHeight: 26,
			HighlightColors: [3][4]float64{
				{1, 0.84, 0, 0.1},
				{0.8, 0.8, 0.8, 0.08},
				{0.8, 0.5, 0.2, 0.06},
			},
		},
	}
}

// Generate renders entries ranked by kind. names maps user ids to display names.
func (g *ImageGenerator) Generate(kind models.LeaderboardKind, entries []models.LeaderboardEntry, names map[string]string) ([]byte, error) {
	p := g.style.Padding
	columns := []TableColumn{
		{Header: "#", XPosition: p, ColorRGB: [3]float64{0.85, 0.85, 0.9}},
		{Header: "User", XPosition: p + 25, ColorRGB: [3]float64{1.0, 1.0, 1.0}},
		{Header: "Lvl", XPosition: p + 165, ColorRGB: [3]float64{0.85, 0.85, 1.0}, Sorted: kind == models.LeaderboardByLevel},
		{Header: "XP", XPosition: p + 210, ColorRGB: [3]float64{0.85, 0.85, 1.0}, Sorted: kind == models.LeaderboardByXP},
		{Header: "Net worth", XPosition: p + 270, ColorRGB: [3]float64{0.85, 1.0, 0.85}, Sorted: kind == models.LeaderboardByMoney},
	}

	rows := make([]TableRow, len(entries))
	for i, entry := range entries {
		name := names[entry.UserID]
		if name == "" {
			name = "User " + entry.UserID
		}

		rows[i] = TableRow{
			Rank: entry.Rank,
			Data: []string{
				fmt.Sprintf("%d", entry.Rank),
				common.TruncateName(name, 15),
				fmt.Sprintf("%d", entry.Level),
				common.FormatBalanceCompact(entry.XP),
				common.FormatBalanceCompact(entry.NetWorth),
			},
		}
	}

	return g.generateTable(columns, rows)
}

// generateTable creates the actual image
func (g *ImageGenerator) generateTable(columns []TableColumn, rows []TableRow) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("row_count", len(rows)).
			Debug("Leaderboard image generation completed")
	}()

	// Header (25px) + header padding (30px) + rows + bottom padding (15px)
	height := 25 + 30 + len(rows)*g.style.RowHeight + 15
	if height < g.style.MinHeight {
		height = g.style.MinHeight
	}

	dc := gg.NewContext(g.style.Width, height)
	common.DrawGradientBackground(dc, g.style.Width, height)

	face, err := common.LoadFont(gomono.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	rankFace, err := common.LoadFont(gobold.TTF, 9)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	dc.SetFontFace(face)

	y := float64(25)

	// Header
	dc.SetRGBA(0.3, 0.3, 0.4, 0.4)
	dc.DrawRectangle(0, y-15, float64(g.style.Width), 20)
	dc.Fill()

	for _, col := range columns {
		if col.Sorted {
			dc.SetRGB(1.0, 0.55, 0.16)
		} else {
			dc.SetRGB(1.0, 1.0, 1.0)
		}
		common.DrawSharpText(dc, col.Header, float64(col.XPosition), y)
	}

	dc.SetRGBA(0.6, 0.6, 0.7, 0.7)
	dc.SetLineWidth(1)
	dc.DrawLine(0, y+8, float64(g.style.Width), y+8)
	dc.Stroke()

	if len(rows) == 0 {
		dc.SetRGB(0.7, 0.7, 0.7)
		dc.DrawStringAnchored("No accounts yet", float64(g.style.Width)/2, y+45, 0.5, 0.5)
	}

	y += 30
	for i, row := range rows {
		if i < 3 {
			c := g.style.HighlightColors[i]
			dc.SetRGBA(c[0], c[1], c[2], c[3])
		} else {
			dc.SetRGBA(0.5, 0.5, 0.6, 0.02)
		}
		dc.DrawRectangle(0, y-15, float64(g.style.Width), float64(g.style.RowHeight))
		dc.Fill()

		if i < 3 {
			// Medal circle for the podium
			medals := [3][3]float64{{1, 0.84, 0}, {0.75, 0.75, 0.75}, {0.8, 0.5, 0.2}}
			dc.SetRGB(medals[i][0], medals[i][1], medals[i][2])
			dc.DrawCircle(float64(g.style.Padding+3), y-4, 6)
			dc.Fill()

			dc.SetRGB(0, 0, 0)
			dc.SetFontFace(rankFace)
			dc.DrawStringAnchored(row.Data[0], float64(g.style.Padding+3), y-5, 0.5, 0.4)
			dc.SetFontFace(face)
		} else {
			c := columns[0].ColorRGB
			dc.SetRGB(c[0], c[1], c[2])
			common.DrawSharpText(dc, row.Data[0], float64(columns[0].XPosition), y)
		}

		for j := 1; j < len(columns) && j < len(row.Data); j++ {
			c := columns[j].ColorRGB
			if columns[j].Sorted {
				dc.SetRGB(1.0, 0.8, 0.55)
			} else {
				dc.SetRGB(c[0], c[1], c[2])
			}
			common.DrawSharpText(dc, row.Data[j], float64(columns[j].XPosition), y)
		}

		y += float64(g.style.RowHeight)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return buf.Bytes(), nil
}
