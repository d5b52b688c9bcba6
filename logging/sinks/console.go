package sinks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"game-interactor/logging"
	"game-interactor/logging/interactions"
)

const (
	colorReset  = "\x1b[0m"
	colorGray   = "\x1b[90m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
)

type ConsoleSink struct {
	logger   *log.Logger
	useColor bool
}

func NewConsoleSink(w io.Writer, cfg logging.ConsoleConfig) *ConsoleSink {
	if w == nil {
		w = io.Discard
	}
	return &ConsoleSink{logger: log.New(w, "", log.LstdFlags), useColor: cfg.UseColor}
}

func (s *ConsoleSink) Write(event logging.Event) error {
	if s.logger == nil {
		return nil
	}
	payload := formatPayload(event.Payload)
	targets := formatTargets(event.Targets)
	s.logger.Printf("[%s] tick=%d actor=%s severity=%s%s%s%s", event.Type, event.Tick, formatEntity(event.Actor), s.formatSeverity(event.Severity), targets, payload, formatReason(event.Extra))
	return nil
}

func (s *ConsoleSink) Close(context.Context) error {
	return nil
}

func (s *ConsoleSink) formatSeverity(sev logging.Severity) string {
	name := sev.String()
	if !s.useColor {
		return name
	}
	switch sev {
	case logging.SeverityDebug:
		return colorGray + name + colorReset
	case logging.SeverityWarn:
		return colorYellow + name + colorReset
	case logging.SeverityError:
		return colorRed + name + colorReset
	default:
		return name
	}
}

func formatEntity(ref logging.EntityRef) string {
	if ref.ID == "" {
		return string(ref.Kind)
	}
	if ref.Kind == "" {
		return ref.ID
	}
	return fmt.Sprintf("%s:%s", ref.Kind, ref.ID)
}

func formatTargets(targets []logging.EntityRef) string {
	if len(targets) == 0 {
		return ""
	}
	parts := make([]string, 0, len(targets))
	for _, target := range targets {
		parts = append(parts, formatEntity(target))
	}
	return fmt.Sprintf(" targets=%s", strings.Join(parts, ","))
}

// formatPayload prints interaction payloads as key=value pairs and anything
// else as JSON.
func formatPayload(payload any) string {
	if payload == nil {
		return ""
	}
	if p, ok := payload.(*interactions.Payload); ok && p != nil {
		payload = *p
	}
	if p, ok := payload.(interactions.Payload); ok {
		line := fmt.Sprintf(" kind=%s params=[%d,%d,%d] result=%s", p.Kind, p.Params[0], p.Params[1], p.Params[2], p.Result)
		if p.EntryID != "" {
			line += " entry=" + p.EntryID
		}
		if p.DurationTicks > 0 {
			line += fmt.Sprintf(" duration=%d", p.DurationTicks)
		}
		return line
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf(" payload=%v", payload)
	}
	return fmt.Sprintf(" payload=%s", data)
}

func formatReason(extra map[string]any) string {
	reason, ok := extra["reason"].(string)
	if !ok || reason == "" {
		return ""
	}
	return fmt.Sprintf(" reason=%q", reason)
}
