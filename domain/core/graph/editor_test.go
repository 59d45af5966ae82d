package graph

import (
	"testing"

	"github.com/imprakashraghu/way-engine/domain/core/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func recordEvents(bus *Bus) *[]Event {
	var events []Event
	bus.Subscribe(func(ev Event) { events = append(events, ev) })
	return &events
}

func TestEditor_EmitsSpecificThenChanged(t *testing.T) {
	bus := NewBus(zap.NewNop())
	events := recordEvents(bus)
	editor := NewEditor(bus, zap.NewNop())

	g, err := editor.AddNode(New(), entities.Node{ID: "n1"})
	require.NoError(t, err)

	require.Len(t, *events, 2)
	assert.Equal(t, EventNodeAdded, (*events)[0].Type)
	assert.Equal(t, "n1", (*events)[0].NodeID)
	assert.Equal(t, EventGraphChanged, (*events)[1].Type)
	assert.True(t, (*events)[1].IsChange())
	assert.Same(t, g, (*events)[0].Graph)
	assert.Same(t, g, (*events)[1].Graph)
}

func TestEditor_RemovalEventsCarryCascade(t *testing.T) {
	g := buildGraph(t)
	bus := NewBus(nil)
	events := recordEvents(bus)
	editor := NewEditor(bus, nil)

	_, err := editor.RemoveNode(g, "n1")
	require.NoError(t, err)

	require.Len(t, *events, 2)
	ev := (*events)[0]
	assert.Equal(t, EventNodeRemoved, ev.Type)
	assert.Equal(t, []string{"p1", "p2"}, ev.RemovedPortIDs)
	assert.Equal(t, []string{"e1", "e2"}, ev.RemovedEdgeIDs)
}

func TestEditor_EventTypes(t *testing.T) {
	g := buildGraph(t)
	editor := NewEditor(nil, nil)
	kind := entities.PortDefault

	tests := []struct {
		name string
		run  func(*Editor) (*Store, error)
		want EventType
	}{
		{name: "update node", run: func(e *Editor) (*Store, error) {
			return e.UpdateNode(g, "n1", entities.NodePatch{Type: ptr("x")})
		}, want: EventNodeUpdated},
		{name: "add port", run: func(e *Editor) (*Store, error) {
			return e.AddPort(g, entities.Port{ID: "p9", NodeID: "n2", Kind: entities.PortOutput})
		}, want: EventPortAdded},
		{name: "update port", run: func(e *Editor) (*Store, error) {
			return e.UpdatePort(g, "p1", entities.PortPatch{Kind: &kind})
		}, want: EventPortUpdated},
		{name: "remove port", run: func(e *Editor) (*Store, error) { return e.RemovePort(g, "p3") }, want: EventPortRemoved},
		{name: "add edge", run: func(e *Editor) (*Store, error) {
			return e.AddEdge(g, entities.Edge{ID: "e3", SourcePortID: "p2", TargetPortID: "p3"})
		}, want: EventEdgeAdded},
		{name: "update edge", run: func(e *Editor) (*Store, error) {
			return e.UpdateEdge(g, "e1", entities.EdgePatch{Data: map[string]any{"a": 1}})
		}, want: EventEdgeUpdated},
		{name: "rewire edge", run: func(e *Editor) (*Store, error) {
			return e.RewireEdge(g, "e1", entities.RewirePatch{TargetPortID: ptr("p3")})
		}, want: EventEdgeUpdated},
		{name: "remove edge", run: func(e *Editor) (*Store, error) { return e.RemoveEdge(g, "e2") }, want: EventEdgeRemoved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewBus(nil)
			events := recordEvents(bus)
			editor.bus = bus

			_, err := tt.run(editor)
			require.NoError(t, err)
			require.Len(t, *events, 2)
			assert.Equal(t, tt.want, (*events)[0].Type)
			assert.Equal(t, EventGraphChanged, (*events)[1].Type)
		})
	}
}

func TestEditor_NoEventsOnFailure(t *testing.T) {
	bus := NewBus(nil)
	events := recordEvents(bus)
	editor := NewEditor(bus, nil)

	_, err := editor.RemoveEdge(New(), "missing")
	require.Error(t, err)
	assert.Empty(t, *events)
}

func TestEditor_SubscriberSeesNewGraph(t *testing.T) {
	bus := NewBus(nil)
	editor := NewEditor(bus, nil)

	var seen bool
	bus.Subscribe(func(ev Event) {
		if ev.Type == EventNodeAdded {
			seen = ev.Graph.HasNode(ev.NodeID)
		}
	})

	_, err := editor.AddNode(New(), entities.Node{ID: "n1"})
	require.NoError(t, err)
	assert.True(t, seen)
}
