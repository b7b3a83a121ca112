package gocommand

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
)

type okMessage struct{}

func (okMessage) Type() string { return "situm.command.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "situm.command.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type selectBuildingMessage struct {
	BuildingID int
}

func (selectBuildingMessage) Type() string { return "situm.command.adapter_test.select" }

type countBuildingsMessage struct{}

func (countBuildingsMessage) Type() string { return "situm.query.adapter_test.count" }

type queueMessage struct{}

func (queueMessage) Type() string { return "situm.command.adapter_test.queue" }

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	defer adapter.Unsubscribe()
	selected := 0

	cmd := command.CommandFunc[selectBuildingMessage](func(_ context.Context, msg selectBuildingMessage) error {
		selected = msg.BuildingID
		return nil
	})
	qry := command.QueryFunc[countBuildingsMessage, int](func(context.Context, countBuildingsMessage) (int, error) {
		return 3, nil
	})

	if _, err := RegisterAndSubscribe(adapter, cmd); err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	if _, err := RegisterAndSubscribeQuery(adapter, qry); err != nil {
		t.Fatalf("register and subscribe query: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	if err := Dispatch(context.Background(), selectBuildingMessage{BuildingID: 12}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if selected != 12 {
		t.Fatalf("expected building 12 to be selected, got %d", selected)
	}
	count, err := Query[countBuildingsMessage, int](context.Background(), countBuildingsMessage{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected count 3, got %d", count)
	}
}

func TestUnsubscribeRemovesHandlers(t *testing.T) {
	adapter := NewRegistryAdapter(nil)
	executed := 0
	cmd := command.CommandFunc[okMessage](func(context.Context, okMessage) error {
		executed++
		return nil
	})
	if _, err := RegisterAndSubscribe(adapter, cmd); err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	adapter.Unsubscribe()

	_ = Dispatch(context.Background(), okMessage{})
	if executed != 0 {
		t.Fatalf("expected no execution after unsubscribe, got %d", executed)
	}
}

func TestQueueResolverHookWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()

	cmd := command.CommandFunc[queueMessage](func(context.Context, queueMessage) error { return nil })

	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if !adapter.HasResolver("queue") {
		t.Fatalf("expected queue resolver to be registered")
	}
	if err := adapter.RegisterCommand(cmd); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	if _, ok := queueRegistry.Get("situm.command.adapter_test.queue"); !ok {
		t.Fatalf("expected command to be mirrored into queue registry")
	}
}

func TestNilAdapterIsRejected(t *testing.T) {
	var adapter *RegistryAdapter
	if err := adapter.RegisterCommand(nil); err == nil {
		t.Fatalf("expected nil adapter to fail")
	}
	if _, err := RegisterAndSubscribe[okMessage](adapter, nil); err == nil {
		t.Fatalf("expected nil adapter to fail")
	}
}
