package notification

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Message struct {
	Subject  string
	HTMLBody string
	TextBody string
}

func BuildConfirmationEmail(siteName, auctionTitle string, amount decimal.Decimal, confirmURL string, ttl time.Duration) Message {
	minutes := int(ttl.Minutes())
	return Message{
		Subject: fmt.Sprintf("Confirm your bid - %s", siteName),
		HTMLBody: fmt.Sprintf(`<h2>Confirm your bid</h2>
<p>You placed a bid of €%s on <strong>%s</strong>.</p>
<p><a href="%s">Click here to confirm your bid</a></p>
<p>Or copy this link to your browser: %s</p>
<p>This link will expire in %d minutes. Until you confirm, your bid is not counted.</p>`,
			amount.StringFixed(2), auctionTitle, confirmURL, confirmURL, minutes),
		TextBody: fmt.Sprintf("You placed a bid of €%s on %s.\n\nConfirm your bid: %s\n\nThis link will expire in %d minutes. Until you confirm, your bid is not counted.",
			amount.StringFixed(2), auctionTitle, confirmURL, minutes),
	}
}

func BuildEndingSoonEmail(siteName, auctionTitle string, currentPrice decimal.Decimal, endDate time.Time) Message {
	end := endDate.UTC().Format("2006-01-02 15:04 MST")
	return Message{
		Subject: fmt.Sprintf("Ending soon: %s - %s", auctionTitle, siteName),
		HTMLBody: fmt.Sprintf(`<h2>%s is ending soon</h2>
<p>The auction closes at %s.</p>
<p>The current price is <strong>€%s</strong>. Place a final bid before it is too late.</p>`,
			auctionTitle, end, currentPrice.StringFixed(2)),
		TextBody: fmt.Sprintf("%s is ending soon.\n\nThe auction closes at %s.\nThe current price is €%s. Place a final bid before it is too late.",
			auctionTitle, end, currentPrice.StringFixed(2)),
	}
}

func BuildEndedEmail(siteName, auctionTitle string, finalPrice decimal.Decimal, winnerName string) Message {
	winnerLine := ""
	if winnerName != "" {
		winnerLine = fmt.Sprintf("<p>Winning bidder: <strong>%s</strong>.</p>", winnerName)
	}
	text := fmt.Sprintf("%s has ended.\n\nFinal price: €%s.", auctionTitle, finalPrice.StringFixed(2))
	if winnerName != "" {
		text += fmt.Sprintf("\nWinning bidder: %s.", winnerName)
	}
	return Message{
		Subject: fmt.Sprintf("Auction ended: %s - %s", auctionTitle, siteName),
		HTMLBody: fmt.Sprintf(`<h2>%s has ended</h2>
<p>Final price: <strong>€%s</strong>.</p>%s
<p>Thank you for participating.</p>`,
			auctionTitle, finalPrice.StringFixed(2), winnerLine),
		TextBody: text + "\n\nThank you for participating.",
	}
}

func BuildWinnerEmail(siteName, auctionTitle string, finalPrice decimal.Decimal, instructions string) Message {
	instrHTML := ""
	instrText := ""
	if instructions != "" {
		instrHTML = fmt.Sprintf("<p>%s</p>", instructions)
		instrText = "\n\n" + instructions
	}
	return Message{
		Subject: fmt.Sprintf("Congratulations, you won: %s - %s", auctionTitle, siteName),
		HTMLBody: fmt.Sprintf(`<h2>Congratulations!</h2>
<p>Your bid of <strong>€%s</strong> won the auction <strong>%s</strong>.</p>%s`,
			finalPrice.StringFixed(2), auctionTitle, instrHTML),
		TextBody: fmt.Sprintf("Congratulations! Your bid of €%s won the auction %s.%s",
			finalPrice.StringFixed(2), auctionTitle, instrText),
	}
}
