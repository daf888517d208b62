package table

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/mitchellh/hashstructure"
	"github.com/sirupsen/logrus"

	"github.com/mihiarc/pyfia-sub006/backend"
)

// JoinType is the join semantics requested by a caller.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
)

// Strategy is the physical join algorithm JoinManager picked, logged for
// observability (spec.md §4.2: "selected by table statistics").
type Strategy string

const (
	StrategyBroadcast  Strategy = "broadcast"
	StrategyHash       Strategy = "hash"
	StrategySortMerge  Strategy = "sort_merge"
)

// referenceTables is the fixed broadcast-eligible set from spec.md §4.2,
// regardless of row count: small, rarely-changing lookup tables that are
// always worth building a hash map from rather than sorting.
var referenceTables = map[string]bool{
	"REF_SPECIES":     true,
	"REF_FOREST_TYPE":  true,
	"REF_AGENT":       true,
	"REF_UNIT":        true,
	"POP_STRATUM":     true,
}

// DefaultSmallTableThreshold is the row-count below which a table is
// broadcast-joined even if it isn't in the fixed reference set.
const DefaultSmallTableThreshold = 10000

// JoinManager builds joined Frames using FIA-aware join patterns and a
// bounded, thread-safe result cache. It never mutates its input Frames;
// Join always returns a new Frame.
type JoinManager struct {
	SmallTableThreshold int

	mu    sync.Mutex
	cache map[string]*backend.ColumnarFrame
	order []string // LRU order, oldest first
	cap   int
}

// NewJoinManager returns a JoinManager with the default small-table
// threshold and an LRU cache bounded to capacity entries (0 disables
// caching).
func NewJoinManager(capacity int) *JoinManager {
	return &JoinManager{
		SmallTableThreshold: DefaultSmallTableThreshold,
		cache:               make(map[string]*backend.ColumnarFrame),
		cap:                 capacity,
	}
}

// Join joins left and right on the given column pairs. on[i] pairs
// left-column on[i][0] with right-column on[i][1] (composite keys, e.g.
// PLT_CN and CONDID for TREE⋈COND, are expressed as multiple pairs).
func (jm *JoinManager) Join(ctx context.Context, left, right *Frame, on [][2]string, how JoinType) (*Frame, error) {
	leftRows, err := left.Collect(ctx)
	if err != nil {
		return nil, err
	}
	rightRows, err := right.Collect(ctx)
	if err != nil {
		return nil, err
	}

	key := jm.fingerprint(left, right, on, how)
	if jm.cap > 0 {
		jm.mu.Lock()
		if cached, ok := jm.cache[key]; ok {
			jm.touch(key)
			jm.mu.Unlock()
			return FromColumnar(cached), nil
		}
		jm.mu.Unlock()
	}

	strategy := jm.chooseStrategy(left, leftRows, right, rightRows)
	logrus.WithFields(logrus.Fields{
		"strategy":   strategy,
		"left_rows":  leftRows.NumRows(),
		"right_rows": rightRows.NumRows(),
	}).Tracef("join manager selected strategy")

	var result *backend.ColumnarFrame
	switch strategy {
	case StrategySortMerge:
		result = sortMergeJoin(leftRows, rightRows, on, how)
	default:
		result = hashJoin(leftRows, rightRows, on, how)
	}

	if jm.cap > 0 {
		jm.mu.Lock()
		jm.put(key, result)
		jm.mu.Unlock()
	}
	return FromColumnar(result), nil
}

func (jm *JoinManager) chooseStrategy(left *Frame, leftRows *backend.ColumnarFrame, right *Frame, rightRows *backend.ColumnarFrame) Strategy {
	if jm.isBroadcastEligible(right, rightRows) {
		return StrategyBroadcast
	}
	if jm.isBroadcastEligible(left, leftRows) {
		return StrategyBroadcast
	}
	// Two large sides: a sorted merge avoids building a hash table the
	// size of the larger input.
	const largeThreshold = 1_000_000
	if leftRows.NumRows() > largeThreshold && rightRows.NumRows() > largeThreshold {
		return StrategySortMerge
	}
	return StrategyHash
}

func (jm *JoinManager) isBroadcastEligible(f *Frame, rows *backend.ColumnarFrame) bool {
	if f.table != "" && referenceTables[f.table] {
		return true
	}
	threshold := jm.SmallTableThreshold
	if threshold <= 0 {
		threshold = DefaultSmallTableThreshold
	}
	return rows.NumRows() < threshold
}

// joinFingerprint is the structural key fingerprint hashes: left/right
// schema column names, the join-key pairs, and the join type.
type joinFingerprint struct {
	LeftSchema  []string
	RightSchema []string
	On          [][2]string
	How         JoinType
}

// fingerprint derives a stable cache key from schema, join keys, and join
// type, per spec.md §4.2's "stable fingerprint of (left schema, right
// schema, join keys, how)".
func (jm *JoinManager) fingerprint(left, right *Frame, on [][2]string, how JoinType) string {
	fp := joinFingerprint{
		LeftSchema:  schemaNames(left.schema),
		RightSchema: schemaNames(right.schema),
		On:          on,
		How:         how,
	}
	hash, err := hashstructure.Hash(fp, nil)
	if err != nil {
		// joinFingerprint holds only strings, slices, and an int — never
		// a channel, func, or unexported field — so hashstructure has
		// nothing to reject here; this is a belt-and-suspenders fallback,
		// not a path exercised in practice.
		return fmt.Sprintf("%v|%v|%v|%d", fp.LeftSchema, fp.RightSchema, fp.On, fp.How)
	}
	return strconv.FormatUint(hash, 10)
}

func schemaNames(schema []backend.Column) []string {
	names := make([]string, len(schema))
	for i, c := range schema {
		names[i] = c.Name
	}
	return names
}

func (jm *JoinManager) touch(key string) {
	for i, k := range jm.order {
		if k == key {
			jm.order = append(jm.order[:i], jm.order[i+1:]...)
			break
		}
	}
	jm.order = append(jm.order, key)
}

func (jm *JoinManager) put(key string, v *backend.ColumnarFrame) {
	if _, exists := jm.cache[key]; !exists && len(jm.order) >= jm.cap {
		oldest := jm.order[0]
		jm.order = jm.order[1:]
		delete(jm.cache, oldest)
	}
	jm.cache[key] = v
	jm.touch(key)
}

// --- join key extraction ---

func keyOf(cf *backend.ColumnarFrame, row int, cols []string) (string, bool) {
	key := ""
	for _, col := range cols {
		idx := cf.ColumnIndex(col)
		if idx < 0 {
			return "", false
		}
		v := cf.Columns[idx][row]
		if v == nil {
			return "", false
		}
		key += fmt.Sprintf("\x1f%v", v)
	}
	return key, true
}

func leftCols(on [][2]string) []string {
	cols := make([]string, len(on))
	for i, p := range on {
		cols[i] = p[0]
	}
	return cols
}

func rightCols(on [][2]string) []string {
	cols := make([]string, len(on))
	for i, p := range on {
		cols[i] = p[1]
	}
	return cols
}

// mergedSchema concatenates left and right schemas; when both sides share
// a column name, the right copy is suffixed "_right" so no column is
// silently dropped (spec.md §4.2 invariant).
func mergedSchema(left, right []backend.Column) []backend.Column {
	seen := make(map[string]bool, len(left))
	for _, c := range left {
		seen[c.Name] = true
	}
	out := append([]backend.Column{}, left...)
	for _, c := range right {
		if seen[c.Name] {
			c.Name = c.Name + "_right"
		}
		out = append(out, c)
	}
	return out
}

func hashJoin(left, right *backend.ColumnarFrame, on [][2]string, how JoinType) *backend.ColumnarFrame {
	schema := mergedSchema(left.Schema, right.Schema)
	out := &backend.ColumnarFrame{Schema: schema, Columns: make([][]backend.Value, len(schema))}

	buildIdx := map[string][]int{}
	for r := 0; r < right.NumRows(); r++ {
		if k, ok := keyOf(right, r, rightCols(on)); ok {
			buildIdx[k] = append(buildIdx[k], r)
		}
	}

	appendRow := func(lRow int, rRow int) {
		col := 0
		for i := range left.Schema {
			out.Columns[col] = append(out.Columns[col], left.Columns[i][lRow])
			col++
		}
		for i := range right.Schema {
			if rRow < 0 {
				out.Columns[col] = append(out.Columns[col], nil)
			} else {
				out.Columns[col] = append(out.Columns[col], right.Columns[i][rRow])
			}
			col++
		}
	}

	for l := 0; l < left.NumRows(); l++ {
		k, ok := keyOf(left, l, leftCols(on))
		if !ok {
			if how == LeftJoin {
				appendRow(l, -1)
			}
			continue
		}
		matches := buildIdx[k]
		if len(matches) == 0 {
			if how == LeftJoin {
				appendRow(l, -1)
			}
			continue
		}
		for _, r := range matches {
			appendRow(l, r)
		}
	}
	return out
}

// sortMergeJoin implements the same equi-join semantics as hashJoin but
// via a sort-then-merge sweep, used when both inputs are too large to
// comfortably build a hash table from either side.
func sortMergeJoin(left, right *backend.ColumnarFrame, on [][2]string, how JoinType) *backend.ColumnarFrame {
	type indexedKey struct {
		key string
		row int
		ok  bool
	}
	lKeys := make([]indexedKey, left.NumRows())
	for i := 0; i < left.NumRows(); i++ {
		k, ok := keyOf(left, i, leftCols(on))
		lKeys[i] = indexedKey{k, i, ok}
	}
	rKeys := make([]indexedKey, right.NumRows())
	for i := 0; i < right.NumRows(); i++ {
		k, ok := keyOf(right, i, rightCols(on))
		rKeys[i] = indexedKey{k, i, ok}
	}
	sort.Slice(lKeys, func(i, j int) bool { return lKeys[i].key < lKeys[j].key })
	sort.Slice(rKeys, func(i, j int) bool { return rKeys[i].key < rKeys[j].key })

	schema := mergedSchema(left.Schema, right.Schema)
	out := &backend.ColumnarFrame{Schema: schema, Columns: make([][]backend.Value, len(schema))}
	appendRow := func(lRow, rRow int) {
		col := 0
		for i := range left.Schema {
			out.Columns[col] = append(out.Columns[col], left.Columns[i][lRow])
			col++
		}
		for i := range right.Schema {
			if rRow < 0 {
				out.Columns[col] = append(out.Columns[col], nil)
			} else {
				out.Columns[col] = append(out.Columns[col], right.Columns[i][rRow])
			}
			col++
		}
	}

	li, ri := 0, 0
	for li < len(lKeys) {
		if !lKeys[li].ok {
			if how == LeftJoin {
				appendRow(lKeys[li].row, -1)
			}
			li++
			continue
		}
		for ri < len(rKeys) && (!rKeys[ri].ok || rKeys[ri].key < lKeys[li].key) {
			ri++
		}
		runStart := ri
		matched := false
		for j := runStart; j < len(rKeys) && rKeys[j].ok && rKeys[j].key == lKeys[li].key; j++ {
			appendRow(lKeys[li].row, rKeys[j].row)
			matched = true
		}
		if !matched && how == LeftJoin {
			appendRow(lKeys[li].row, -1)
		}
		li++
	}
	return out
}

// JoinTreeCondition joins TREE to COND on (PLT_CN, CONDID), the pattern
// named explicitly in spec.md §4.2.
func (jm *JoinManager) JoinTreeCondition(ctx context.Context, tree, cond *Frame) (*Frame, error) {
	return jm.Join(ctx, tree, cond, [][2]string{{"PLT_CN", "PLT_CN"}, {"CONDID", "CONDID"}}, InnerJoin)
}

// JoinTreePlot joins TREE to PLOT on PLT_CN = CN.
func (jm *JoinManager) JoinTreePlot(ctx context.Context, tree, plot *Frame) (*Frame, error) {
	return jm.Join(ctx, tree, plot, [][2]string{{"PLT_CN", "CN"}}, InnerJoin)
}

// JoinStratification joins PLOT ⋈ PPSA ⋈ POP_STRATUM, the pattern used by
// the stratification loader (C5) to attach EXPNS/ADJ_FACTOR/w_h to every
// active plot.
func (jm *JoinManager) JoinStratification(ctx context.Context, plot, ppsa, popStratum *Frame) (*Frame, error) {
	plotPpsa, err := jm.Join(ctx, plot, ppsa, [][2]string{{"CN", "PLT_CN"}}, InnerJoin)
	if err != nil {
		return nil, err
	}
	return jm.Join(ctx, plotPpsa, popStratum, [][2]string{{"STRATUM_CN", "CN"}}, InnerJoin)
}
