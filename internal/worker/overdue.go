// Package worker holds the background jobs of the server process.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eztransport/logistics-api/internal/model"
	"github.com/eztransport/logistics-api/internal/repository"
)

// OverdueMonitor periodically scans for moving shipments whose
// estimated delivery has passed and records a delay event against each
// one, which also drags the shipment status to in_transit.
type OverdueMonitor struct {
	Shipments *repository.ShipmentRepo
	Events    *repository.EventRepo
	Log       *zap.Logger
}

func NewOverdueMonitor(shipments *repository.ShipmentRepo, events *repository.EventRepo,
	log *zap.Logger) *OverdueMonitor {
	if shipments == nil || events == nil || log == nil {
		panic("nil dependency passed to NewOverdueMonitor")
	}
	return &OverdueMonitor{Shipments: shipments, Events: events, Log: log}
}

// Start schedules the monitor on the given cron expression and returns
// the running scheduler so the caller can stop it on shutdown.
func (m *OverdueMonitor) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, m.Run); err != nil {
		return nil, fmt.Errorf("bad monitor schedule %q: %w", schedule, err)
	}
	c.Start()
	m.Log.Info("overdue monitor scheduled", zap.String("schedule", schedule))
	return c, nil
}

// Run executes one scan. It is exported so an operator endpoint or a
// test can trigger a scan outside the schedule.
func (m *OverdueMonitor) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	overdue, err := m.Shipments.ListOverdue(ctx)
	if err != nil {
		m.Log.Error("overdue scan failed", zap.Error(err))
		return
	}
	for _, s := range overdue {
		if m.alreadyFlagged(ctx, s.ID) {
			continue
		}
		notes := "estimated delivery passed"
		if s.EstimatedDelivery != nil {
			notes = fmt.Sprintf("estimated delivery %s passed", s.EstimatedDelivery.UTC().Format(time.RFC3339))
		}
		ev := &model.TrackingEvent{
			ShipmentID:     s.ID,
			EventType:      model.EventDelay,
			EventTimestamp: time.Now().UTC(),
			Notes:          notes,
		}
		if err := m.Events.Create(ctx, ev); err != nil {
			m.Log.Error("record delay event failed",
				zap.Uint64("shipment_id", s.ID), zap.Error(err))
			continue
		}
		m.Log.Warn("shipment overdue",
			zap.Uint64("shipment_id", s.ID),
			zap.String("tracking_number", s.TrackingNumber))
	}
}

// alreadyFlagged reports whether the shipment's latest event is a
// delay, so repeated scans do not pile delay events onto the same
// overdue shipment.
func (m *OverdueMonitor) alreadyFlagged(ctx context.Context, shipmentID uint64) bool {
	records, err := m.Events.ListForShipment(ctx, shipmentID)
	if err != nil || len(records) == 0 {
		return false
	}
	return records[len(records)-1].Event.EventType == model.EventDelay
}
