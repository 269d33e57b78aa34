package domain

import (
	"context"
	"fmt"
	"sync"

	m "tracklogic.dev/pkg/tracklogic/internal/model"
)

// Tracker is the mutable, dictionary-style view of a tracking session. Every
// change bumps a revision; node reads re-evaluate when the revision moved, so
// a read always reflects the current settings. Tracker is safe for
// concurrent use.
type Tracker struct {
	mu        sync.Mutex
	graph     *Graph
	evaluator Evaluator
	mode      m.Mode
	items     [m.ItemTypeCount]int
	breaks    [m.SequenceBreakTypeCount]bool
	revision  uint64

	cached         *Evaluation
	cachedRevision uint64

	itemDictionary  *ItemDictionary
	breakDictionary *SequenceBreakDictionary
	nodeDictionary  *RequirementNodeDictionary
}

// NewTracker creates a tracker over graph, starting from the default state.
func NewTracker(graph *Graph) *Tracker {
	t := &Tracker{graph: graph, evaluator: NewEvaluator(graph), mode: m.DefaultMode()}
	t.itemDictionary = &ItemDictionary{tracker: t}
	t.breakDictionary = &SequenceBreakDictionary{tracker: t}
	t.nodeDictionary = &RequirementNodeDictionary{tracker: t}
	t.resetItemsLocked()

	return t
}

// Mode returns the current seed settings.
func (t *Tracker) Mode() m.Mode {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.mode
}

// SetMode replaces the seed settings.
func (t *Tracker) SetMode(mode m.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = mode
	t.revision++
}

// Items returns the item dictionary.
func (t *Tracker) Items() *ItemDictionary {
	return t.itemDictionary
}

// SequenceBreaks returns the sequence break dictionary.
func (t *Tracker) SequenceBreaks() *SequenceBreakDictionary {
	return t.breakDictionary
}

// Nodes returns the requirement node dictionary.
func (t *Tracker) Nodes() *RequirementNodeDictionary {
	return t.nodeDictionary
}

// Snapshot returns an immutable copy of the current settings.
func (t *Tracker) Snapshot() World {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.snapshotLocked()
}

// State returns the current settings in persisted form.
func (t *Tracker) State() m.State {
	return t.Snapshot().State()
}

// Load replaces every setting with state. On error the tracker is unchanged.
func (t *Tracker) Load(state m.State) error {
	world, err := NewWorld(state)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = world.mode
	t.items = world.items
	t.breaks = world.breaks
	t.revision++

	return nil
}

// Evaluate returns the evaluation for the current settings, reusing the last
// one when nothing changed since.
func (t *Tracker) Evaluate(ctx context.Context) (*Evaluation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cached != nil && t.cachedRevision == t.revision {
		return t.cached, nil
	}

	eval, err := t.evaluator.Evaluate(ctx, t.snapshotLocked())
	if err != nil {
		return nil, err
	}

	t.cached = eval
	t.cachedRevision = t.revision

	return eval, nil
}

func (t *Tracker) snapshotLocked() World {
	return World{mode: t.mode, items: t.items, breaks: t.breaks}
}

func (t *Tracker) resetItemsLocked() {
	for _, itemType := range m.ItemTypes() {
		t.items[itemType] = itemType.Starting()
	}

	t.revision++
}

// ItemDictionary holds the current count of every item.
type ItemDictionary struct {
	tracker *Tracker
}

// Reset returns every item to its starting count.
func (d *ItemDictionary) Reset() {
	d.tracker.mu.Lock()
	defer d.tracker.mu.Unlock()

	d.tracker.resetItemsLocked()
}

// Current returns the count of an item.
func (d *ItemDictionary) Current(itemType m.ItemType) int {
	d.tracker.mu.Lock()
	defer d.tracker.mu.Unlock()

	if !itemType.Valid() {
		return 0
	}

	return d.tracker.items[itemType]
}

// Set changes the count of an item.
func (d *ItemDictionary) Set(itemType m.ItemType, count int) error {
	d.tracker.mu.Lock()
	defer d.tracker.mu.Unlock()

	return d.setLocked(itemType, count)
}

// Add changes the count of an item by delta.
func (d *ItemDictionary) Add(itemType m.ItemType, delta int) error {
	d.tracker.mu.Lock()
	defer d.tracker.mu.Unlock()

	if !itemType.Valid() {
		return fmt.Errorf("item %d: %w", int(itemType), m.ErrUnknownValue)
	}

	return d.setLocked(itemType, d.tracker.items[itemType]+delta)
}

func (d *ItemDictionary) setLocked(itemType m.ItemType, count int) error {
	if !itemType.Valid() {
		return fmt.Errorf("item %d: %w", int(itemType), m.ErrUnknownValue)
	}

	if count < 0 || count > itemType.Maximum() {
		return fmt.Errorf("%s=%d (max %d): %w", itemType, count, itemType.Maximum(), ErrItemCountOutOfRange)
	}

	if d.tracker.items[itemType] != count {
		d.tracker.items[itemType] = count
		d.tracker.revision++
	}

	return nil
}

// SequenceBreakDictionary holds the enabled flag of every sequence break.
type SequenceBreakDictionary struct {
	tracker *Tracker
}

// Reset disables every sequence break.
func (d *SequenceBreakDictionary) Reset() {
	d.tracker.mu.Lock()
	defer d.tracker.mu.Unlock()

	d.tracker.breaks = [m.SequenceBreakTypeCount]bool{}
	d.tracker.revision++
}

// Enabled reports whether a sequence break is enabled.
func (d *SequenceBreakDictionary) Enabled(sb m.SequenceBreakType) bool {
	d.tracker.mu.Lock()
	defer d.tracker.mu.Unlock()

	return sb.Valid() && d.tracker.breaks[sb]
}

// SetEnabled enables or disables a sequence break.
func (d *SequenceBreakDictionary) SetEnabled(sb m.SequenceBreakType, enabled bool) error {
	if !sb.Valid() {
		return fmt.Errorf("sequence break %d: %w", int(sb), m.ErrUnknownValue)
	}

	d.tracker.mu.Lock()
	defer d.tracker.mu.Unlock()

	if d.tracker.breaks[sb] != enabled {
		d.tracker.breaks[sb] = enabled
		d.tracker.revision++
	}

	return nil
}

// RequirementNodeDictionary gives access to the nodes of the tracker's graph.
type RequirementNodeDictionary struct {
	tracker *Tracker
}

// Get returns the node with the given id, or nil when the graph does not
// declare it. Accessibility and Route on a nil node report None and no route.
func (d *RequirementNodeDictionary) Get(id m.RequirementNodeID) *RequirementNode {
	if !d.tracker.graph.Has(id) {
		return nil
	}

	return &RequirementNode{id: id, tracker: d.tracker}
}

// RequirementNode is a read-only handle on one node of the graph.
type RequirementNode struct {
	id      m.RequirementNodeID
	tracker *Tracker
}

// ID returns the node identifier.
func (n *RequirementNode) ID() m.RequirementNodeID {
	return n.id
}

// Accessibility returns the node's level under the tracker's current settings.
func (n *RequirementNode) Accessibility() m.AccessibilityLevel {
	if n == nil {
		return m.AccessibilityNone
	}

	eval, err := n.tracker.Evaluate(context.Background())
	if err != nil {
		return m.AccessibilityNone
	}

	return eval.Accessibility(n.id)
}

// Route explains the node's current level.
func (n *RequirementNode) Route() []m.RouteStep {
	if n == nil {
		return nil
	}

	eval, err := n.tracker.Evaluate(context.Background())
	if err != nil {
		return nil
	}

	return eval.Route(n.id)
}
