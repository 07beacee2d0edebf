package bank

import (
	"testing"
	"time"

	"mikune/models"
	"mikune/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceEmbed(t *testing.T) {
	account := service.NewAccount("1")
	account.Balance = 1500
	account.Bank = 2500

	embed := BalanceEmbed("Mikune", account, &models.InterestResult{Applied: true, Amount: 50, Bank: 2500}, 0.02)

	assert.Equal(t, "Mikune's balance", embed.Title)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "🥕 1,500", embed.Fields[0].Value)
	assert.Equal(t, "🥕 2,500", embed.Fields[1].Value)
	assert.Equal(t, "🥕 4,000", embed.Fields[2].Value)
	assert.Contains(t, embed.Description, "🥕 50")
	assert.Contains(t, embed.Footer.Text, "2%")
}

func TestBalanceEmbed_NoInterestLine(t *testing.T) {
	account := service.NewAccount("1")

	embed := BalanceEmbed("Mikune", account, &models.InterestResult{Applied: true, Amount: 0}, 0.02)
	assert.Empty(t, embed.Description)

	embed = BalanceEmbed("Mikune", account, nil, 0.02)
	assert.Empty(t, embed.Description)
}

func TestTransferEmbed(t *testing.T) {
	embed := TransferEmbed("42", &models.TransferResult{
		Amount:             1000,
		Fee:                5,
		FeePercent:         0.005,
		Received:           995,
		CertificateApplied: true,
		SenderBank:         0,
	})

	assert.Contains(t, embed.Description, "<@42>")
	assert.Equal(t, "🥕 5 (0.5%) 📜 certificate discount", embed.Fields[0].Value)
	assert.Equal(t, "🥕 995", embed.Fields[1].Value)
}

func TestHistoryEmbed(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := []*models.BalanceHistory{
		{Pool: models.PoolBank, ChangeAmount: -10, TransactionType: models.TransactionTypeTransferFee, CreatedAt: now},
		{Pool: models.PoolBank, ChangeAmount: 1000, TransactionType: models.TransactionTypeDeposit, CreatedAt: now},
	}

	embed := HistoryEmbed(entries)
	assert.Contains(t, embed.Description, "`-10` Transfer fee · bank")
	assert.Contains(t, embed.Description, "`+1,000` Deposit · bank")

	assert.Equal(t, "No transactions yet.", HistoryEmbed(nil).Description)
}

func TestDescribeTransaction_Unknown(t *testing.T) {
	assert.Equal(t, "mystery", describeTransaction(models.TransactionType("mystery")))
}
