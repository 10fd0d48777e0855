// Package extract turns noisy call transcripts into structured,
// confidence-scored entity records. Extraction is deterministic, rule-based,
// and never fails: absent facts stay absent instead of raising.
package extract

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/freightlink/match-cli/internal/config"
	"github.com/freightlink/match-cli/internal/knowledge"
	"github.com/freightlink/match-cli/internal/model"
	"github.com/freightlink/match-cli/internal/textproc"
)

// Fixed per-category confidences. These are feature-presence indicators, not
// calibrated probabilities.
const (
	deterministicConfidence  = 0.9
	conversationalConfidence = 0.8
)

// Extractor runs the full entity-extraction stage over one transcript.
// Safe for concurrent use: the knowledge base and pattern tables are
// read-only after construction.
type Extractor struct {
	kb  *knowledge.Base
	cfg config.ExtractorConfig
}

// New builds an Extractor around an injected knowledge base.
func New(kb *knowledge.Base, cfg config.ExtractorConfig) *Extractor {
	if cfg.FuzzyThreshold <= 0 {
		cfg.FuzzyThreshold = 0.85
	}
	return &Extractor{kb: kb, cfg: cfg}
}

// conversation is a transcript partitioned into role sub-texts. Prices quoted
// BY the trucker and TO the trucker carry different meaning, so the
// deterministic pass reads each side separately. The price pass additionally
// keeps the raw turn text: normalization strips the currency sign and the
// thousands separators the price cues rely on.
type conversation struct {
	full       string // "speaker: text" lines, normalized
	fullLower  string
	trucker    string // trucker turns joined
	commercial string // shipper + dispatcher turns joined

	rawLower      string // raw turns lowercased, for price cues
	truckerRaw    string
	commercialRaw string
}

// Extract produces the immutable entity record for a transcript. Running it
// twice on the same transcript yields identical output.
func (e *Extractor) Extract(t model.Transcript) model.ExtractedEntities {
	conv := partition(t)

	det := e.extractDeterministic(conv)
	flags := extractIntents(conv.fullLower, conv.rawLower)

	entities := assemble(det, flags)
	e.canonicalize(&entities)

	zap.L().Debug("extract: transcript processed",
		zap.String("transcript_id", t.ID),
		zap.Int("turns", len(t.Turns)),
		zap.Float64("overall_confidence", entities.OverallConfidence()),
	)
	return entities
}

func partition(t model.Transcript) conversation {
	var full, raw, trucker, commercial []string
	var truckerRaw, commercialRaw []string

	for _, turn := range t.Turns {
		text := textproc.Normalize(turn.Text)
		speaker := strings.ToLower(turn.Speaker)
		full = append(full, fmt.Sprintf("%s: %s", speaker, text))
		raw = append(raw, turn.Text)

		switch ClassifySpeaker(turn.Speaker, turn.Text) {
		case model.RoleTrucker:
			trucker = append(trucker, text)
			truckerRaw = append(truckerRaw, turn.Text)
		case model.RoleShipper, model.RoleDispatcher:
			commercial = append(commercial, text)
			commercialRaw = append(commercialRaw, turn.Text)
		}
	}

	fullText := strings.Join(full, "\n")
	return conversation{
		full:       fullText,
		fullLower:  strings.ToLower(fullText),
		trucker:    strings.Join(trucker, " "),
		commercial: strings.Join(commercial, " "),

		rawLower:      strings.ToLower(strings.Join(raw, "\n")),
		truckerRaw:    strings.Join(truckerRaw, " "),
		commercialRaw: strings.Join(commercialRaw, " "),
	}
}

// deterministicFacts are the raw values recovered by the pattern pass, before
// assembly into the entity record.
type deterministicFacts struct {
	truckType   model.TruckType
	truckLength *int
	tonnage     *float64
	from        string
	to          string
	expected    *float64 // quoted by the trucker
	quoted      *float64 // quoted to the trucker
	phone       string
}

func (e *Extractor) extractDeterministic(conv conversation) deterministicFacts {
	var facts deterministicFacts

	if conv.trucker != "" {
		if tt, ok := e.matchTruckType(conv.trucker); ok {
			facts.truckType = tt
		}
		facts.tonnage = extractTonnage(conv.trucker)
		facts.truckLength = extractLength(conv.trucker)
		facts.from, facts.to = e.extractRoute(conv.trucker)
	}

	// Prices read the raw turns so "₹30000" and "25,000" survive intact.
	if conv.truckerRaw != "" {
		facts.expected = extractPrice(conv.truckerRaw)
	}
	if conv.commercialRaw != "" {
		facts.quoted = extractPrice(conv.commercialRaw)
	}

	// Either party may share a number, so the phone pass reads everything.
	facts.phone = extractPhone(conv.full)

	return facts
}

func assemble(det deterministicFacts, flags intentFlags) model.ExtractedEntities {
	entities := model.ExtractedEntities{
		TruckType:    det.truckType,
		TruckLength:  det.truckLength,
		Tonnage:      det.tonnage,
		FromLocation: det.from,
		ToLocation:   det.to,
		ExpectedRate: det.expected,
		QuotedRate:   det.quoted,
		PhoneNumber:  det.phone,

		// Truckers call in because they are free; constraints would be
		// modeled explicitly if the conversation stated any.
		AvailableImmediately: true,

		DidPitchLoad:       flags.didPitchLoad,
		WasPriceDiscussed:  flags.wasPriceDiscussed,
		DidSayNoLoad:       flags.didSayNoLoad,
		WasNumberExchanged: flags.wasNumberExchanged,

		ConfidenceScores: map[string]float64{},
	}

	if det.from != "" || det.to != "" {
		for _, loc := range []string{det.from, det.to} {
			if loc != "" {
				entities.PreferredRoutes = append(entities.PreferredRoutes, loc)
			}
		}
	}

	// Every populated deterministic field carries a fixed confidence.
	scores := entities.ConfidenceScores
	if det.truckType != "" {
		scores["truck_type"] = deterministicConfidence
	}
	if det.truckLength != nil {
		scores["truck_length"] = deterministicConfidence
	}
	if det.tonnage != nil {
		scores["tonnage"] = deterministicConfidence
	}
	if det.from != "" {
		scores["from_location"] = deterministicConfidence
	}
	if det.to != "" {
		scores["to_location"] = deterministicConfidence
	}
	if det.expected != nil {
		scores["expected_rate"] = deterministicConfidence
	}
	if det.quoted != nil {
		scores["quoted_rate"] = deterministicConfidence
	}
	if det.phone != "" {
		scores["phone_number"] = deterministicConfidence
	}

	// Flags are scored whether true or false: the detection ran either way.
	for _, key := range []string{"did_pitch_load", "was_price_discussed", "did_say_no_load", "was_number_exchanged"} {
		scores[key] = conversationalConfidence
	}

	if len(scores) > 0 {
		var sum float64
		for _, v := range scores {
			sum += v
		}
		scores[model.ConfidenceKeyOverall] = sum / float64(len(scores))
	}

	return entities
}

// canonicalize re-runs locations and truck type through the knowledge base.
// The pass is idempotent and must not touch confidence scores.
func (e *Extractor) canonicalize(entities *model.ExtractedEntities) {
	if entities.FromLocation != "" {
		entities.FromLocation = e.kb.NormalizeLocation(entities.FromLocation)
	}
	if entities.ToLocation != "" {
		entities.ToLocation = e.kb.NormalizeLocation(entities.ToLocation)
	}
	for i, route := range entities.PreferredRoutes {
		entities.PreferredRoutes[i] = e.kb.NormalizeLocation(route)
	}
	if entities.TruckType != "" {
		if tt, ok := e.kb.NormalizeTruckType(string(entities.TruckType)); ok {
			entities.TruckType = model.TruckType(tt)
		}
	}
}
