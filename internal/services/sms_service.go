package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"hampuff/hampuff/internal/constants"
	"hampuff/hampuff/internal/logging"
	"hampuff/hampuff/internal/metrics"
	gormModels "hampuff/hampuff/internal/models/gorm"
	"hampuff/hampuff/internal/providers"
)

// ErrMalformedLegacyCommand flags a hampuff-style body that violates the
// fixed 8-character format. It is surfaced internally only; the sender gets
// the apology text.
var ErrMalformedLegacyCommand = errors.New("malformed legacy hampuff command")

// RegistrationStore is the slice of the registration repository the SMS flow
// depends on.
type RegistrationStore interface {
	FindByPhone(ctx context.Context, phoneRaw string) (*gormModels.Registration, error)
	SetOptIn(ctx context.Context, phoneRaw string, optedIn bool) (bool, error)
	IsOptedIn(ctx context.Context, phoneRaw string) bool
}

type commandKind string

const (
	cmdOptOut  commandKind = "opt_out"
	cmdOptIn   commandKind = "opt_in"
	cmdHelp    commandKind = "help"
	cmdRetortF commandKind = "retort_f"
	cmdRetortS commandKind = "retort_s"
	cmdAirport commandKind = "airport"
	cmdProp    commandKind = "prop"
	cmdLegacy  commandKind = "legacy"
	cmdUnknown commandKind = "unknown"
)

// command is the tagged classification result. Zone is set for propagation
// requests; body carries the folded text for the legacy format, which
// validates its own shape in the handler.
type command struct {
	kind commandKind
	zone string
	body string
}

// rule pairs a matcher with its position in the dispatch order. Classification
// is first-match-wins, so ordering here IS the behavior: opt-out before the
// gate, help before the gate, the length-4 check before any substring match.
type rule struct {
	name  string
	match func(folded string) (command, bool)
}

// SMSService is the message classifier: it turns an inbound body and sender
// into reply text, consulting the registration gate and the solar feed.
type SMSService struct {
	store RegistrationStore
	solar providers.PropagationSource
	tz    *TimezoneResolver
	reg   *metrics.MetricsRegistry

	adminRules   []rule
	contentRules []rule
}

func NewSMSService(store RegistrationStore, solar providers.PropagationSource, tz *TimezoneResolver, reg *metrics.MetricsRegistry) *SMSService {
	s := &SMSService{
		store: store,
		solar: solar,
		tz:    tz,
		reg:   reg,
	}

	// Administrative commands run before the opt-in gate.
	s.adminRules = []rule{
		{"opt_out", s.matchOptOut},
		{"opt_in", s.matchOptIn},
		{"help", s.matchHelp},
	}

	// Content rules run only for opted-in senders.
	s.contentRules = []rule{
		{"retort_f", s.matchRetortF},
		{"retort_s", s.matchRetortS},
		{"airport", s.matchAirport},
		{"prop", s.matchProp},
		{"legacy", s.matchLegacy},
	}

	return s
}

// HandleMessage classifies one inbound message and produces the reply text.
// Internal failures never reach the sender; every path ends in a canned reply.
func (s *SMSService) HandleMessage(ctx context.Context, body string, sender string) string {
	trimmed := strings.TrimSpace(body)
	folded := strings.ToLower(trimmed)

	logging.Info("Inbound SMS", "sender", sender, "body", trimmed)

	for _, r := range s.adminRules {
		if cmd, ok := r.match(folded); ok {
			return s.dispatch(ctx, cmd, sender)
		}
	}

	// Opt-in gate. Fails closed: a storage error reads as not opted in.
	if !s.store.IsOptedIn(ctx, sender) {
		s.countCommand("gate_refused")
		return constants.MsgNotRegistered
	}

	for _, r := range s.contentRules {
		if cmd, ok := r.match(folded); ok {
			return s.dispatch(ctx, cmd, sender)
		}
	}

	s.countCommand(string(cmdUnknown))
	return constants.MsgWrongNumber
}

// HelpText renders the command summary with the live zone vocabulary.
func (s *SMSService) HelpText() string {
	return fmt.Sprintf(constants.MsgHelpFmt, s.tz.SupportedZones())
}

// ----------------------------------------------------------------------------
// Matchers
// ----------------------------------------------------------------------------

func (s *SMSService) matchOptOut(folded string) (command, bool) {
	if folded == "stop" || folded == "unregister" {
		return command{kind: cmdOptOut}, true
	}
	return command{}, false
}

func (s *SMSService) matchOptIn(folded string) (command, bool) {
	if folded == "start" || folded == "register" {
		return command{kind: cmdOptIn}, true
	}
	return command{}, false
}

func (s *SMSService) matchHelp(folded string) (command, bool) {
	if folded == "help" || folded == "?" {
		return command{kind: cmdHelp}, true
	}
	return command{}, false
}

func (s *SMSService) matchRetortF(folded string) (command, bool) {
	if strings.Contains(folded, constants.ProfanityTokenF) {
		return command{kind: cmdRetortF}, true
	}
	return command{}, false
}

func (s *SMSService) matchRetortS(folded string) (command, bool) {
	if strings.Contains(folded, constants.ProfanityTokenS) {
		return command{kind: cmdRetortS}, true
	}
	return command{}, false
}

// matchAirport fires on any 4-character body, airport code or not. Length is
// counted in runes so non-ASCII bodies match too. It sits before the
// prop/legacy matchers, so a bare "prop" (itself 4 characters) gets the
// airport reply.
func (s *SMSService) matchAirport(folded string) (command, bool) {
	if utf8.RuneCountInString(folded) == 4 {
		return command{kind: cmdAirport}, true
	}
	return command{}, false
}

func (s *SMSService) matchProp(folded string) (command, bool) {
	words := strings.Fields(folded)
	if len(words) < 2 {
		return command{}, false
	}
	if words[0] != "prop" && words[0] != "propagation" {
		return command{}, false
	}
	zone, ok := s.tz.Canonical(words[1])
	if !ok {
		return command{}, false
	}
	return command{kind: cmdProp, zone: zone}, true
}

func (s *SMSService) matchLegacy(folded string) (command, bool) {
	if !strings.Contains(folded, "hampuff") {
		return command{}, false
	}
	return command{kind: cmdLegacy, body: folded}, true
}

// ----------------------------------------------------------------------------
// Handlers
// ----------------------------------------------------------------------------

func (s *SMSService) dispatch(ctx context.Context, cmd command, sender string) string {
	s.countCommand(string(cmd.kind))

	switch cmd.kind {
	case cmdOptOut:
		return s.handleOptOut(ctx, sender)
	case cmdOptIn:
		return s.handleOptIn(ctx, sender)
	case cmdHelp:
		return s.HelpText()
	case cmdRetortF:
		return constants.MsgRetortF
	case cmdRetortS:
		return constants.MsgRetortS
	case cmdAirport:
		return constants.MsgAirport
	case cmdProp:
		return s.handleProp(ctx, cmd.zone)
	case cmdLegacy:
		return s.handleLegacy(ctx, cmd.body)
	default:
		return constants.MsgWrongNumber
	}
}

// handleOptOut always succeeds regardless of current status and is idempotent.
func (s *SMSService) handleOptOut(ctx context.Context, sender string) string {
	updated, err := s.store.SetOptIn(ctx, sender, false)
	if err != nil {
		logging.Error("Opt-out failed", "sender", sender, "error", err.Error())
		return constants.MsgOptOutNoop
	}
	if !updated {
		return constants.MsgOptOutNoop
	}
	return constants.MsgOptOutConfirmed
}

// handleOptIn re-enables an existing registration. It never creates one: an
// unknown number is pointed at the registration channel instead.
func (s *SMSService) handleOptIn(ctx context.Context, sender string) string {
	reg, err := s.store.FindByPhone(ctx, sender)
	if err != nil {
		logging.Error("Opt-in lookup failed", "sender", sender, "error", err.Error())
		return constants.MsgOptInNoRecord
	}
	if reg == nil {
		return constants.MsgOptInNoRecord
	}

	if _, err := s.store.SetOptIn(ctx, sender, true); err != nil {
		logging.Error("Opt-in update failed", "sender", sender, "error", err.Error())
		return constants.MsgOptInNoRecord
	}
	return constants.MsgOptInConfirmed
}

func (s *SMSService) handleProp(ctx context.Context, zone string) string {
	loc, err := s.tz.Resolve(zone)
	if err != nil {
		logging.Error("Timezone resolution failed", "zone", zone, "error", err.Error())
		return s.apology(zone)
	}

	record, err := s.solar.Fetch(ctx)
	if err != nil {
		s.countSolarError(err)
		logging.Error("Solar fetch failed", "zone", zone, "error", err.Error())
		return s.apology(zone)
	}

	report, err := FormatSolarReport(record, zone, loc)
	if err != nil {
		logging.Error("Solar report formatting failed", "zone", zone, "error", err.Error())
		return s.apology(zone)
	}

	return report + "\n\n" + constants.MsgConsent
}

// handleLegacy serves the fixed 8-character hampuff format: "hampuff" plus a
// one-letter zone, Eastern or Pacific only. Format violations are logged and
// answered with the apology text, never with the raw error.
func (s *SMSService) handleLegacy(ctx context.Context, folded string) string {
	zone, err := parseLegacyZone(folded)
	if err != nil {
		logging.Error("Legacy command rejected", "body", folded, "error", err.Error())
		return s.apology("hampuff")
	}
	return s.handleProp(ctx, zone)
}

func parseLegacyZone(folded string) (string, error) {
	if len(folded) != 8 {
		return "", fmt.Errorf("%w: body must be exactly 8 characters", ErrMalformedLegacyCommand)
	}
	if !strings.HasPrefix(folded, "hampuff") {
		return "", fmt.Errorf("%w: body must start with hampuff", ErrMalformedLegacyCommand)
	}
	switch folded[7] {
	case 'e':
		return "EST", nil
	case 'p':
		return "PST", nil
	}
	return "", fmt.Errorf("%w: zone must be e (Eastern) or p (Pacific)", ErrMalformedLegacyCommand)
}

func (s *SMSService) apology(zone string) string {
	return fmt.Sprintf(constants.MsgSolarUnavailableFmt, zone, s.tz.SupportedZones())
}

func (s *SMSService) countCommand(kind string) {
	if s.reg != nil {
		s.reg.SMSCommandsTotal.WithLabelValues(kind).Inc()
	}
}

func (s *SMSService) countSolarError(err error) {
	if s.reg == nil {
		return
	}
	var solarErr *providers.SolarError
	if errors.As(err, &solarErr) {
		s.reg.SolarFetchesTotal.WithLabelValues(solarErr.Code).Inc()
	}
}
