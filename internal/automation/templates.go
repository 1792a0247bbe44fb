package automation

import "fmt"

const signature = "\n\nThanks,\nAutomated Support\nDealerDesk Support Team"

func acknowledgmentEmail(contact, feedName, feedType string) string {
	return fmt.Sprintf("Hi %s,\n\nThanks for reaching out. I will take a look at this %s %s feed request and get back to you soon.%s",
		orThere(contact), feedName, feedType, signature)
}

func billingComment(dealerName, dealerID, feedName, feedType string) string {
	return fmt.Sprintf("@billing - Please verify if an order is required for this setup:\n\nDealer: %s (ID: %s)\nFeed: %s (%s)",
		dealerName, dealerID, feedName, feedType)
}

func orderRequestEmail(rep, dealerName, feedName, feedType, packageType, monthlyFee string) string {
	return fmt.Sprintf(`Hi %s,

We received a request to set up %s %s for %s.

According to billing, this requires a new order:
- Package: %s
- Monthly Fee: %s

Could you please work with the client to place the order? Once confirmed, the setup will proceed.%s`,
		orThere(rep), feedName, feedType, dealerName, orNA(packageType), orNA(monthlyFee), signature)
}

func approvalRequestEmail(rep, dealerName, feedName, feedType, requesterEmail string) string {
	return fmt.Sprintf(`Hi %s,

We received a request from %s to set up %s %s for %s.

No order is required (included in the existing package), but please confirm before the setup proceeds.

Can you approve this request?%s`,
		orThere(rep), requesterEmail, feedName, feedType, dealerName, signature)
}

func confirmationEmail(contact, dealerName, feedName, feedType, feedID, feedURL, inventoryType string) string {
	return fmt.Sprintf(`Hi %s,

Great news! The %s %s feed has been successfully configured for %s.

Feed details:
- Feed ID: %s
- Feed URL: %s
- Status: Active
- Inventory Type: %s

The feed is now live and will sync automatically. Please allow 24-48 hours for initial data population.%s`,
		orThere(contact), feedName, feedType, dealerName, feedID, feedURL, inventoryType, signature)
}

func cancellationAckEmail(contact, feedName, dealerName string) string {
	return fmt.Sprintf("Hi %s,\n\nThanks for letting us know about the %s cancellation for %s. We will proceed with disabling the feed and get back to you shortly.%s",
		orThere(contact), feedName, dealerName, signature)
}

func cancellationApprovalEmail(rep, dealerName, feedName, requesterEmail string) string {
	return fmt.Sprintf("Hi %s,\n\nWe received a request from %s to cancel the %s feed for %s.\n\nCan you approve this cancellation request?%s",
		orThere(rep), requesterEmail, feedName, dealerName, signature)
}

func syndicatorNotificationEmail(feedName, dealerName, feedID string) string {
	return fmt.Sprintf("Hi %s Team,\n\nThis is to inform you that the feed for %s (Feed ID: %s) has been cancelled and is no longer active.\n\nPlease update your systems accordingly.%s",
		feedName, dealerName, feedID, signature)
}

func orThere(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}
