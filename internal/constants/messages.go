package constants

// Canned SMS reply texts. The classifier only ever sends these to a handset;
// internal errors must never leak into an outbound message.
const (
	MsgConsent = "Your SMS request provides consent to send the reply."

	MsgAirport = "Wrong number. That might be an airport so please text Airpuff " +
		"at sms://+1-802-247-7833 / [802-AIR-PUFF]"

	MsgWrongNumber = "Wrong number. Please waste someone else's time."

	MsgRetortF = "Go fuck yourself, too"
	MsgRetortS = "Go shit your pants"

	MsgNotRegistered = "You are not registered for SMS service. " +
		"Please visit the registration page to opt in."

	MsgOptOutConfirmed = "You have been unsubscribed from Hampuff SMS. Text START to resume."
	MsgOptOutNoop      = "You are not currently registered. No action needed."

	MsgOptInConfirmed = "You are opted in to Hampuff SMS. Text STOP to unsubscribe."
	MsgOptInNoRecord  = "No registration found for this number. " +
		"Please complete registration through the registration page first."

	MsgEmptyBody = "No message body received"
)

// MsgSolarUnavailableFmt takes the requested zone code and the supported zone list.
const MsgSolarUnavailableFmt = "Sorry, unable to retrieve propagation data for %s at this time. " +
	"Supported zones: %s"

// MsgHelpFmt takes the supported zone list.
const MsgHelpFmt = `Hampuff SMS commands:
  prop <ZONE>  - solar propagation report for a timezone
  hampuffe     - legacy Eastern report
  hampuffp     - legacy Pacific report
  STOP         - unsubscribe
  START        - resume a registration
  HELP or ?    - this message
Supported zones: %s
Example: prop EST`

// Profanity tokens checked before any other content matching.
const (
	ProfanityTokenF = "fuck"
	ProfanityTokenS = "shit"
)
