package api

const (
	errUnableToParseAddress  = "unable to parse address"
	errUnableToParseBlock    = "unable to parse block"
	errUnableToParseDecimals = "unable to parse decimals"
	errDecimalsTooLarge      = "decimals exceeds the supported precision"
	errFailedLookingUpHealth = "failed while looking up the node health"
	errFailedBalanceLookup   = "failed while looking up the balance"
	errFailedTokenLookup     = "failed while looking up the token balance"
	errFailedDecimalsLookup  = "failed while looking up the token decimals"
	errFailedReport          = "failed while building the balance report"
	errNodeUnavailable       = "the node is not available, try again later"
	errRequestCancelled      = "request cancelled"
)
