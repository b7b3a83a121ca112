package adapters_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-command"
	job "github.com/goliatone/go-job"
	"github.com/goliatone/go-job/queue"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-situm/adapters/gocommand"
	"github.com/goliatone/go-situm/adapters/gojob"
	"github.com/goliatone/go-situm/realtime"
)

type scheduleRefreshMessage struct {
	BuildingID int
}

func (scheduleRefreshMessage) Type() string { return "situm.compat.realtime.schedule" }

func TestRuntimeCompatibility_CommandEnqueuesRealtimeJob(t *testing.T) {
	ctx := context.Background()
	memory := &memoryQueue{}
	enqueuer := gojob.NewEnqueuerAdapter(memory)

	adapter := gocommand.NewRegistryAdapter(command.NewRegistry())
	defer adapter.Unsubscribe()
	queueRegistry := jobqueuecommand.NewRegistry()
	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}

	schedule := command.CommandFunc[scheduleRefreshMessage](func(ctx context.Context, msg scheduleRefreshMessage) error {
		return enqueuer.EnqueuePositions(ctx, realtime.Search{BuildingIDs: []int{msg.BuildingID}}, "compat")
	})
	if _, err := gocommand.RegisterAndSubscribe(adapter, schedule); err != nil {
		t.Fatalf("register schedule command: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if _, ok := queueRegistry.Get("situm.compat.realtime.schedule"); !ok {
		t.Fatalf("expected command to be mirrored into go-job queue registry")
	}

	if err := gocommand.Dispatch(ctx, scheduleRefreshMessage{BuildingID: 42}); err != nil {
		t.Fatalf("dispatch schedule: %v", err)
	}
	if len(memory.messages) != 1 {
		t.Fatalf("expected one queued job, got %d", len(memory.messages))
	}

	source := &compatPositions{}
	logger := &compatLogger{}
	handler := gojob.NewPositionsHandler(source, nil, gojob.WithLogger(logger))
	delivery := &compatDelivery{msg: memory.messages[0]}
	if err := handler.Handle(ctx, delivery, 0); err != nil {
		t.Fatalf("handle queued job: %v", err)
	}
	if !delivery.acked {
		t.Fatalf("expected queued job to be acked")
	}
	if len(source.searches) != 1 || source.searches[0].BuildingIDs[0] != 42 {
		t.Fatalf("expected building 42 refresh, got %+v", source.searches)
	}
	if logger.debug == 0 {
		t.Fatalf("expected completion to be logged")
	}
}

type memoryQueue struct {
	messages []*job.ExecutionMessage
}

func (q *memoryQueue) Enqueue(_ context.Context, msg *job.ExecutionMessage) error {
	q.messages = append(q.messages, msg)
	return nil
}

type compatDelivery struct {
	msg   *job.ExecutionMessage
	acked bool
}

func (d *compatDelivery) Message() *job.ExecutionMessage { return d.msg }

func (d *compatDelivery) Ack(context.Context) error {
	d.acked = true
	return nil
}

func (d *compatDelivery) Nack(context.Context, queue.NackOptions) error { return nil }

type compatPositions struct {
	searches []realtime.Search
}

func (p *compatPositions) Positions(_ context.Context, search realtime.Search) (realtime.Positions, error) {
	p.searches = append(p.searches, search)
	return realtime.Positions{Type: "FeatureCollection"}, nil
}

type compatLogger struct {
	debug int
}

func (l *compatLogger) Trace(string, ...any)                    {}
func (l *compatLogger) Debug(string, ...any)                    { l.debug++ }
func (l *compatLogger) Info(string, ...any)                     {}
func (l *compatLogger) Warn(string, ...any)                     {}
func (l *compatLogger) Error(string, ...any)                    {}
func (l *compatLogger) Fatal(string, ...any)                    {}
func (l *compatLogger) WithContext(context.Context) glog.Logger { return l }
