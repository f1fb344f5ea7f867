package enum

// MessagingProvider names the outbound backend configured for a company
type MessagingProvider string

const (
	MessagingProviderNone   MessagingProvider = "none"
	MessagingProviderTwilio MessagingProvider = "twilio"
	MessagingProviderMeta   MessagingProvider = "meta"
)

// IsValid reports whether p is a known provider
func (p MessagingProvider) IsValid() bool {
	switch p {
	case MessagingProviderNone, MessagingProviderTwilio, MessagingProviderMeta:
		return true
	}
	return false
}
