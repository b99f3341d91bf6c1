package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cleared-dev/nullnotice/internal/amount"
	"github.com/cleared-dev/nullnotice/internal/archive"
	"github.com/cleared-dev/nullnotice/internal/dispatchlog"
	"github.com/cleared-dev/nullnotice/internal/letter"
	"github.com/cleared-dev/nullnotice/internal/model"
	"github.com/cleared-dev/nullnotice/internal/notify"
	"github.com/cleared-dev/nullnotice/internal/prompt"
	"github.com/cleared-dev/nullnotice/internal/records"
)

// Skip reasons.
const (
	ReasonInsufficientData = "insufficient data for provider"
	ReasonNoRecipient      = "missing recipient field"
	ReasonInvalidPayments  = "invalid payment amounts"
	ReasonRenderFailed     = "letter rendering failed"
	ReasonDispatchFailed   = "dispatch failed"
)

// Pipeline holds everything a run needs. Archiver and DispatchLog are optional.
type Pipeline struct {
	Entities    []model.Entity
	Generator   *letter.Generator
	Notifiers   *notify.Registry
	Selector    prompt.Selector
	Archiver    *archive.Archiver
	DispatchLog string
	Out         io.Writer
	Log         *slog.Logger
}

// Run processes the records in path and returns what happened.
func (p *Pipeline) Run(ctx context.Context, path string) (model.Summary, error) {
	summary := model.Summary{RunID: uuid.New().String()}
	log := p.Log.With("run", summary.RunID)

	entity, notifier, err := p.selectEntity(ctx)
	if err != nil {
		return summary, err
	}
	summary.Entity = entity

	tones := letter.Tones()
	toneIdx, err := p.Selector.SelectTone(ctx, tones)
	if err != nil {
		return summary, err
	}
	tone := tones[toneIdx]
	summary.Tone = string(tone)

	recs, err := records.ReadFile(path)
	if err != nil {
		return summary, fmt.Errorf("reading data file: %w", err)
	}
	summary.Records = len(recs)

	summary.GrandTotal = amount.SumAllValid(recs)
	fmt.Fprintf(p.Out, "Grand total of nullities: %s\n", amount.Format(summary.GrandTotal))

	n, err := p.Selector.SelectCount(ctx, len(recs))
	if err != nil {
		return summary, err
	}
	summary.Requested = n
	n = max(0, min(n, len(recs)))

	log.Info("processing records", "file", path, "records", len(recs), "requested", summary.Requested,
		"entity", entity.Name, "channel", entity.Channel, "tone", tone)

	for _, rec := range recs[:n] {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		d, skip := p.process(ctx, log, entity, notifier, tone, rec)
		if skip != nil {
			summary.Skips = append(summary.Skips, *skip)
			continue
		}
		summary.Dispatches = append(summary.Dispatches, d)
	}

	if p.DispatchLog != "" && len(summary.Dispatches) > 0 {
		if err := dispatchlog.Append(p.DispatchLog, summary.Dispatches); err != nil {
			log.Warn("failed to write dispatch log", "path", p.DispatchLog, "error", err)
		}
	}

	log.Info("run complete", "dispatched", len(summary.Dispatches), "skipped", len(summary.Skips))
	return summary, nil
}

func (p *Pipeline) selectEntity(ctx context.Context) (model.Entity, notify.Notifier, error) {
	if len(p.Entities) == 0 {
		return model.Entity{}, nil, errors.New("no sending entities configured")
	}
	idx, err := p.Selector.SelectEntity(ctx, p.Entities)
	if err != nil {
		return model.Entity{}, nil, err
	}
	entity := p.Entities[idx]
	notifier := p.Notifiers.Get(entity.Channel)
	if notifier == nil {
		return model.Entity{}, nil, fmt.Errorf("entity %q: no notifier for channel %q", entity.Name, entity.Channel)
	}
	return entity, notifier, nil
}

// process handles one record. It returns either a dispatch or a skip.
func (p *Pipeline) process(
	ctx context.Context,
	log *slog.Logger,
	entity model.Entity,
	notifier notify.Notifier,
	tone letter.Tone,
	rec model.ProviderRecord,
) (model.Dispatch, *model.Skip) {
	log = log.With("line", rec.Line, "case", rec.CaseCode())

	if rec.Malformed() {
		return p.skip(log, rec, ReasonInsufficientData, nil)
	}
	if !rec.HasRecipient() {
		return p.skip(log, rec, ReasonNoRecipient, nil)
	}

	c := model.Case{
		Line:      rec.Line,
		Code:      rec.CaseCode(),
		Company:   rec.Company(),
		Recipient: rec.Recipient(),
		Payments:  amount.Payments(rec),
	}
	total, err := amount.SumPayments(c.Payments)
	if err != nil {
		return p.skip(log, rec, ReasonInvalidPayments, err)
	}
	c.Total = total

	l, err := p.Generator.Render(tone, letter.FromCase(entity.Name, c))
	if err != nil {
		return p.skip(log, rec, ReasonRenderFailed, err)
	}

	var archivePath string
	if p.Archiver != nil {
		archivePath, err = p.Archiver.Save(c.Code, l.Text)
		if err != nil {
			log.Error("archiving letter failed, dispatching anyway", "error", err)
		} else {
			fmt.Fprintf(p.Out, "Letter archived at: %s\n", archivePath)
		}
	}

	rcpt, err := notifier.Deliver(ctx, c.Recipient, l.Text)
	if err != nil {
		return p.skip(log, rec, ReasonDispatchFailed, err)
	}
	log.Debug("letter dispatched", "receipt", rcpt.ID, "recipient", c.Recipient)

	return model.Dispatch{
		ReceiptID:   rcpt.ID,
		Time:        rcpt.Time,
		CaseCode:    c.Code,
		Company:     c.Company,
		Entity:      entity.Name,
		Channel:     rcpt.Channel,
		Recipient:   c.Recipient,
		Total:       amount.Format(c.Total),
		ArchivePath: archivePath,
	}, nil
}

func (p *Pipeline) skip(log *slog.Logger, rec model.ProviderRecord, reason string, err error) (model.Dispatch, *model.Skip) {
	fmt.Fprintf(p.Out, "Error: %s (line %d).\n", reason, rec.Line)
	if err != nil {
		log.Warn("skipping record", "reason", reason, "error", err)
	} else {
		log.Warn("skipping record", "reason", reason, "fields", len(rec.Fields))
	}
	return model.Dispatch{}, &model.Skip{Line: rec.Line, CaseCode: rec.CaseCode(), Reason: reason}
}
