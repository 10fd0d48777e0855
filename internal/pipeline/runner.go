// Package pipeline runs a transcript through extraction and matching and
// turns the ranked results into a business decision with an audit trail.
package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/freightlink/match-cli/internal/extract"
	"github.com/freightlink/match-cli/internal/knowledge"
	"github.com/freightlink/match-cli/internal/match"
	"github.com/freightlink/match-cli/internal/model"
	"github.com/freightlink/match-cli/internal/store"
)

// Options tunes a single processing run.
type Options struct {
	// TopN caps how many ranked matches land in the result. Zero keeps all.
	TopN int
	// DistanceKm, when set, enables the benchmark rate check for the route.
	DistanceKm float64
	// Season names the seasonal rate factor ("normal" when empty).
	Season string
}

// Runner wires the extractor, the matcher, and the store into one pipeline.
// The store is optional: without one, runs are not recorded.
type Runner struct {
	extractor *extract.Extractor
	matcher   *match.Matcher
	kb        *knowledge.Base
	store     store.Store
}

// New builds a Runner. Pass a nil store for pure in-memory processing.
func New(extractor *extract.Extractor, matcher *match.Matcher, kb *knowledge.Base, st store.Store) *Runner {
	return &Runner{extractor: extractor, matcher: matcher, kb: kb, store: st}
}

// Process runs one transcript against a load catalogue and returns the full
// result. When a store is configured the run is recorded before processing
// and its result persisted after.
func (r *Runner) Process(ctx context.Context, transcript *model.Transcript, loads []*model.Load, opts Options) (*model.RunResult, error) {
	if transcript == nil || len(transcript.Turns) == 0 {
		return nil, eris.New("pipeline: transcript has no turns")
	}

	var runID string
	if r.store != nil {
		run, err := r.store.CreateRun(ctx, *transcript)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		runID = run.ID
		if err := r.store.UpdateRunStatus(ctx, runID, model.RunStatusRunning); err != nil {
			return nil, eris.Wrap(err, "pipeline: mark running")
		}
	}

	result, err := r.process(ctx, transcript, loads, opts)
	if err != nil {
		if runID != "" {
			if serr := r.store.UpdateRunStatus(ctx, runID, model.RunStatusFailed); serr != nil {
				zap.L().Warn("failed to mark run failed", zap.String("run_id", runID), zap.Error(serr))
			}
		}
		return nil, err
	}

	if runID != "" {
		if err := r.store.UpdateRunResult(ctx, runID, result); err != nil {
			return nil, eris.Wrap(err, "pipeline: persist result")
		}
	}
	return result, nil
}

// ProcessFromStore is Process with the catalogue pulled from the store's
// available loads.
func (r *Runner) ProcessFromStore(ctx context.Context, transcript *model.Transcript, opts Options) (*model.RunResult, error) {
	if r.store == nil {
		return nil, eris.New("pipeline: no store configured")
	}
	listed, err := r.store.ListLoads(ctx, store.LoadFilter{Status: model.LoadStatusAvailable})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: list loads")
	}
	loads := make([]*model.Load, len(listed))
	for i := range listed {
		loads[i] = &listed[i]
	}
	return r.Process(ctx, transcript, loads, opts)
}

func (r *Runner) process(ctx context.Context, transcript *model.Transcript, loads []*model.Load, opts Options) (*model.RunResult, error) {
	extracted := r.extractor.Extract(*transcript)
	entities := &extracted

	matches, err := r.matcher.Match(ctx, entities, loads)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: match")
	}
	if opts.TopN > 0 && len(matches) > opts.TopN {
		matches = matches[:opts.TopN]
	}

	assessment := r.assess(entities, matches, opts)

	zap.L().Info("processed transcript",
		zap.String("transcript_id", transcript.ID),
		zap.Int("matches", len(matches)),
		zap.String("action", string(assessment.Action)),
		zap.String("confidence", string(assessment.Confidence)))

	return &model.RunResult{
		Entities:   entities,
		Matches:    matches,
		Assessment: assessment,
	}, nil
}

// assess turns the ranked matches into the operational decision: what to do
// with this call, how sure we are, and what the operator should do next.
func (r *Runner) assess(entities *model.ExtractedEntities, matches []model.MatchResult, opts Options) *model.Assessment {
	a := &model.Assessment{
		Confidence: confidenceLevel(entities.OverallConfidence()),
	}

	if len(matches) == 0 {
		switch {
		case entities.WasNumberExchanged && entities.TruckType != "":
			a.Action = model.RecommendationCreateLead
			a.Reasoning = append(a.Reasoning, "no catalogue load matched, but a number was exchanged and the truck type is known")
		case entities.HasCoreFacts():
			a.Action = model.RecommendationCreateLead
			a.Reasoning = append(a.Reasoning, "no catalogue load matched, but truck and capacity are known")
		default:
			a.Action = model.RecommendationReject
			a.Reasoning = append(a.Reasoning, "no catalogue load matched and core truck facts are missing")
		}
	} else {
		top := matches[0]
		a.TopLoadID = top.LoadID

		// An engaged caller is worth acting on more eagerly than the raw
		// catalogue score says: sharing a number and talking price both
		// raise the score the action tier is taken from.
		bonus := conversationBonus(entities)
		acted := top.OverallScore + bonus
		if acted > 1.0 {
			acted = 1.0
		}
		a.Action = r.matcher.Recommend(acted)

		a.Reasoning = append(a.Reasoning,
			fmt.Sprintf("best load %s scored %.2f", top.LoadID, top.OverallScore))
		if bonus > 0 {
			a.Reasoning = append(a.Reasoning,
				fmt.Sprintf("conversation engagement bonus +%.2f, acted-on score %.2f", bonus, acted))
		}
		a.Reasoning = append(a.Reasoning, top.MatchReasons...)
		a.Reasoning = append(a.Reasoning, top.MismatchReasons...)
		if !top.MandatoryMatch {
			a.Reasoning = append(a.Reasoning, "truck type or capacity did not clear the mandatory bar")
		}
		if top.PriceGap != nil {
			a.Reasoning = append(a.Reasoning,
				fmt.Sprintf("price gap ₹%.0f, negotiation likelihood %.1f", *top.PriceGap, top.NegotiationLikelihood))
		}
	}

	a.Reasoning = append(a.Reasoning,
		fmt.Sprintf("extraction confidence %.2f (%s)", entities.OverallConfidence(), a.Confidence))

	if note, est := r.rateCheck(entities, opts); note != "" {
		a.Reasoning = append(a.Reasoning, note)
		a.EstimatedRate = est
	}

	a.ActionItems = actionItems(a.Action, entities)
	return a
}

// rateCheck compares the trucker's expected rate against the market
// benchmark for the route distance, when both are known.
func (r *Runner) rateCheck(entities *model.ExtractedEntities, opts Options) (string, *float64) {
	if opts.DistanceKm <= 0 || entities.TruckType == "" {
		return "", nil
	}
	season := opts.Season
	if season == "" {
		season = "normal"
	}
	est, ok := r.kb.EstimateRate(string(entities.TruckType), opts.DistanceKm, season)
	if !ok {
		return "", nil
	}

	if entities.ExpectedRate == nil {
		return fmt.Sprintf("benchmark rate for the route is ₹%.0f (₹%.0f-₹%.0f)", est.Estimated, est.Min, est.Max), &est.Estimated
	}

	expected := *entities.ExpectedRate
	note := fmt.Sprintf("expected rate ₹%.0f vs benchmark ₹%.0f", expected, est.Estimated)
	if expected > est.Max || expected < est.Min {
		deviation := math.Abs(expected-est.Estimated) / est.Estimated
		note = fmt.Sprintf("expected rate ₹%.0f deviates %.0f%% from benchmark ₹%.0f", expected, deviation*100, est.Estimated)
	}
	return note, &est.Estimated
}

// conversationBonus rewards engagement signals: a shared number is the
// strongest commitment a caller can make, a price discussion a weaker one.
func conversationBonus(entities *model.ExtractedEntities) float64 {
	var bonus float64
	if entities.WasNumberExchanged {
		bonus += 0.1
	}
	if entities.WasPriceDiscussed {
		bonus += 0.05
	}
	return bonus
}

func confidenceLevel(overall float64) model.ConfidenceLevel {
	switch {
	case overall >= 0.8:
		return model.ConfidenceHigh
	case overall >= 0.6:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

func actionItems(action model.Recommendation, entities *model.ExtractedEntities) []string {
	var items []string
	switch action {
	case model.RecommendationAutoApprove:
		items = append(items, "confirm the load with the trucker and assign it")
	case model.RecommendationHumanReview:
		items = append(items, "queue the match for operations review")
	case model.RecommendationCreateLead:
		items = append(items, "record the trucker's preferences for future loads")
	case model.RecommendationReject:
		items = append(items, "close the call, no follow-up required")
	}

	if entities.PhoneNumber == "" && entities.WasNumberExchanged {
		items = append(items, "a number was exchanged but not captured, pull it from call metadata")
	}
	if entities.PhoneNumber != "" {
		items = append(items, fmt.Sprintf("contact number on file: %s", entities.PhoneNumber))
	}
	return items
}
