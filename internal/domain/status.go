package domain

// BadgeTone is the console's badge color vocabulary.
type BadgeTone string

const (
	ToneSuccess  BadgeTone = "success"
	ToneWarning  BadgeTone = "warning"
	ToneInfo     BadgeTone = "info"
	ToneCritical BadgeTone = "critical"
	ToneSubdued  BadgeTone = "subdued"
)

// FinancialStatusTone maps the platform's payment status vocabulary onto a
// badge tone for the orders table.
func FinancialStatusTone(status string) BadgeTone {
	switch status {
	case "PAID":
		return ToneSuccess
	case "PENDING":
		return ToneWarning
	case "REFUNDED", "PARTIALLY_REFUNDED":
		return ToneInfo
	default:
		return ToneCritical
	}
}

// FulfillmentStatusTone maps the platform's fulfillment status vocabulary onto
// a badge tone.
func FulfillmentStatusTone(status string) BadgeTone {
	switch status {
	case "FULFILLED":
		return ToneSuccess
	case "PARTIALLY_FULFILLED", "UNFULFILLED":
		return ToneWarning
	default:
		return ToneSubdued
	}
}
