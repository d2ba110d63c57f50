package bot

import (
	"fmt"
	"strings"
	"time"

	"faucetdrop-bot/internal/model"
)

// fmtRemaining renders a cooldown remainder as "Nh Mm".
func fmtRemaining(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func welcomeMessage(name, amount, currency string) string {
	return fmt.Sprintf(
		"*Congratulations, %s!*\n\n"+
			"*You've won %s %s!*\n\n"+
			"To claim your reward:\n"+
			"1. Enter your *FaucetPay registered email*\n"+
			"2. We'll send %s %s instantly\n"+
			"3. Check your FaucetPay balance\n\n"+
			"*Please enter your FaucetPay email now:*\n"+
			"(Example: yourname@example.com)",
		name, amount, currency, amount, currency)
}

func cooldownMessage(remaining time.Duration) string {
	return fmt.Sprintf(
		"*Cooldown Active*\n\n"+
			"You have already claimed your reward.\n"+
			"Next claim available in: *%s*\n\n"+
			"Please wait and try again later!",
		fmtRemaining(remaining))
}

func invalidEmailMessage() string {
	return "*Invalid Email Format*\n\n" +
		"Please enter a valid email address.\n" +
		"Format: name@domain.com\n\n" +
		"Try again:"
}

func throttledMessage() string {
	return "Please wait a moment before trying again."
}

func processingMessage() string {
	return "*Processing your request...*\n" +
		"Please wait while we send your reward."
}

func successMessage(amount, currency, email, ref string) string {
	return fmt.Sprintf(
		"*Success! Reward Sent!*\n\n"+
			"*Amount:* %s %s\n"+
			"*Sent to:* %s\n"+
			"*Transaction ID:* `%s`\n\n"+
			"*Next Steps:*\n"+
			"1. Check your FaucetPay account\n"+
			"2. Verify the transaction\n"+
			"3. Come back in 24 hours for more!\n\n"+
			"Thank you for using our bot!",
		amount, currency, email, ref)
}

func rejectedMessage(reason string) string {
	return fmt.Sprintf(
		"*Transaction Failed*\n\n"+
			"*Error:* %s\n\n"+
			"*Possible reasons:*\n"+
			"- Email not registered with FaucetPay\n"+
			"- FaucetPay API limit reached\n"+
			"- Temporary service issue\n\n"+
			"Please try again with a valid FaucetPay email.\n"+
			"Use /start to retry.",
		reason)
}

func timeoutMessage() string {
	return "*Request Timeout*\n\n" +
		"The service is taking too long to respond.\n" +
		"Please try again in a few minutes.\n\n" +
		"Use /start to retry."
}

func unavailableMessage() string {
	return "*Service Temporarily Unavailable*\n\n" +
		"We're experiencing technical difficulties.\n" +
		"Please try again later.\n\n" +
		"Use /start to retry."
}

func cancelledMessage() string {
	return "Operation cancelled.\nUse /start to begin again."
}

func helpMessage(amount, currency string) string {
	return fmt.Sprintf(
		"*Faucet Bot Help*\n\n"+
			"*What is this?*\n"+
			"Free %s faucet bot! Get small amounts of %s for free.\n\n"+
			"*Commands:*\n"+
			"/start - Claim your free %s\n"+
			"/help - Show this help message\n"+
			"/status - Check your claim status\n"+
			"/stats - View bot statistics (admin)\n"+
			"/cancel - Cancel the current claim\n\n"+
			"*How to claim:*\n"+
			"1. Use /start command\n"+
			"2. Enter your FaucetPay email\n"+
			"3. Receive %s %s instantly\n\n"+
			"*Cooldown:* 24 hours between claims\n"+
			"*Requirement:* Must be a registered FaucetPay email",
		currency, currency, currency, amount, currency)
}

func statusCooldownMessage(email string, remaining time.Duration) string {
	return fmt.Sprintf(
		"*Your Status*\n\n"+
			"*Last claim:* Success\n"+
			"*Email used:* %s\n"+
			"*Next claim in:* %s\n\n"+
			"Please wait for the cooldown to end.",
		email, fmtRemaining(remaining))
}

func statusReadyMessage() string {
	return "*Ready to Claim!*\n\n" +
		"You can claim your reward now!\n\n" +
		"Use /start to get your free reward!"
}

func statusNeverClaimedMessage() string {
	return "*No Claims Yet*\n\n" +
		"You haven't made any claims yet.\n" +
		"Use /start to claim your first reward!"
}

func accessDeniedMessage() string {
	return "*Access Denied*\n\n" +
		"This command is for administrators only."
}

func statsMessage(totalClaims, uniqueUsers, activeSessions int, recent []model.HistoryEntry) string {
	if totalClaims == 0 {
		return "*Bot Statistics*\n\n" +
			"No claims have been made yet.\n" +
			"Waiting for first user..."
	}

	lines := make([]string, 0, len(recent))
	for _, e := range recent {
		lines = append(lines, fmt.Sprintf("- %s (%s)", e.Email, e.Timestamp))
	}

	return fmt.Sprintf(
		"*Bot Statistics*\n\n"+
			"*Total Claims:* %d\n"+
			"*Unique Users:* %d\n"+
			"*Active Sessions:* %d\n\n"+
			"*Recent Claims:*\n%s",
		totalClaims, uniqueUsers, activeSessions, strings.Join(lines, "\n"))
}

func unknownCommandMessage() string {
	return "Unknown command. Use /help to see what I can do."
}
