package enums

// ActivityAction names a recorded audit-trail event.
type ActivityAction string

const (
	ActivityOfferDrafted  ActivityAction = "offer.drafted"
	ActivityOfferSent     ActivityAction = "offer.sent"
	ActivityOfferAccepted ActivityAction = "offer.accepted"
	ActivityOfferExpired  ActivityAction = "offer.expired"
)
