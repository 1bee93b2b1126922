package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/kubev2v/capacity-planner/internal/events"
	"go.uber.org/zap"
)

// EventWriter receives the planner activity. events.EventProducer implements it.
type EventWriter interface {
	Write(ctx context.Context, kind string, body io.Reader) error
}

func WithEventWriter(w EventWriter) PlannerOption {
	return func(s *PlannerService) {
		s.eventWriter = w
	}
}

func (s *PlannerService) datasetEvent(ctx context.Context, ds *Dataset) {
	s.pushEvent(ctx, events.DatasetMessageKind, events.DatasetEvent{
		DatasetID: ds.ID.String(),
		Name:      ds.Name,
		Clusters:  ds.Clusters,
		VMs:       ds.VMs,
		Hosts:     ds.Hosts,
		Cached:    ds.Cached,
	})
}

func (s *PlannerService) reportEvent(ctx context.Context, a *Analysis, format ReportFormat, artifact *Artifact, location string) {
	s.pushEvent(ctx, events.ReportMessageKind, events.ReportEvent{
		DatasetID: a.ID.String(),
		Clusters:  a.Summary.Clusters,
		Format:    string(format),
		Name:      artifact.Name,
		Size:      len(artifact.Content),
		Location:  location,
	})
}

// pushEvent never fails the caller. A lost event is only logged.
func (s *PlannerService) pushEvent(ctx context.Context, kind string, event any) {
	if s.eventWriter == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		zap.S().Named("planner_service").Errorw("failed to marshal event", "error", err, "event_kind", kind)
		return
	}

	if err := s.eventWriter.Write(ctx, kind, bytes.NewBuffer(data)); err != nil {
		zap.S().Named("planner_service").Errorw("failed to write event", "error", err, "event_kind", kind)
	}
}
