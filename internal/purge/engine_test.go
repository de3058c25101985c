package purge

import (
	"errors"
	"fmt"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/render-tools/internal/model"
	"github.com/shinji-kodama/render-tools/internal/signature"
)

// tenBytes is the single value every tagged dictionary carries in the fixture.
const tenBytes = "0123456789"

type fakeDict map[string]any

func (d fakeDict) Values() []any {
	out := make([]any, 0, len(d))
	for _, v := range d {
		out = append(out, v)
	}
	return out
}

type fakeEntity struct {
	id        string
	dicts     map[string]fakeDict
	failOn    bool
	image     bool
	instances []Entity
	onDelete  func()
}

func newEntity(id string, keys ...string) *fakeEntity {
	e := &fakeEntity{id: id, dicts: map[string]fakeDict{}}
	for _, k := range keys {
		e.dicts[k] = fakeDict{"payload": tenBytes}
	}
	return e
}

func (e *fakeEntity) ID() string { return e.id }

func (e *fakeEntity) Dictionary(name string) (Dictionary, bool) {
	d, ok := e.dicts[name]
	return d, ok
}

func (e *fakeEntity) DeleteDictionary(name string) error {
	if e.failOn {
		return errors.New("entity is locked")
	}
	delete(e.dicts, name)
	if e.onDelete != nil {
		e.onDelete()
	}
	return nil
}

func (e *fakeEntity) IsImage() bool       { return e.image }
func (e *fakeEntity) Instances() []Entity { return e.instances }

type fakeScene struct {
	model        *fakeEntity
	definitions  []*fakeEntity
	materials    []*fakeEntity
	transactions int
	rollbacks    int
}

func (s *fakeScene) Model() Entity { return s.model }

func (s *fakeScene) Definitions() []Definition {
	out := make([]Definition, len(s.definitions))
	for i, d := range s.definitions {
		out[i] = d
	}
	return out
}

func (s *fakeScene) Materials() []Entity {
	out := make([]Entity, len(s.materials))
	for i, m := range s.materials {
		out[i] = m
	}
	return out
}

func (s *fakeScene) all() []*fakeEntity {
	all := []*fakeEntity{s.model}
	for _, d := range s.definitions {
		all = append(all, d)
		for _, i := range d.instances {
			all = append(all, i.(*fakeEntity))
		}
	}
	return append(all, s.materials...)
}

// Transaction snapshots every dictionary map and restores it on error.
func (s *fakeScene) Transaction(_ string, fn func() error) error {
	s.transactions++
	snapshot := map[*fakeEntity]map[string]fakeDict{}
	for _, e := range s.all() {
		snapshot[e] = maps.Clone(e.dicts)
	}
	if err := fn(); err != nil {
		s.rollbacks++
		for e, d := range snapshot {
			e.dicts = d
		}
		return err
	}
	return nil
}

func (s *fakeScene) countTagged(key string) int {
	n := 0
	for _, e := range s.all() {
		if _, ok := e.dicts[key]; ok {
			n++
		}
	}
	return n
}

// newFixture builds a model, two regular definitions with three instances
// each, one image definition with three instances, and five materials.
// Every entity carries one tagged dictionary with a single 10-byte value.
func newFixture() *fakeScene {
	key := signature.LegacyKey
	s := &fakeScene{model: newEntity("model", key)}
	for d := 0; d < 3; d++ {
		def := newEntity(fmt.Sprintf("def-%d", d), key)
		def.image = d == 2
		for i := 0; i < 3; i++ {
			def.instances = append(def.instances, newEntity(fmt.Sprintf("def-%d-inst-%d", d, i), key))
		}
		s.definitions = append(s.definitions, def)
	}
	for m := 0; m < 5; m++ {
		s.materials = append(s.materials, newEntity(fmt.Sprintf("mat-%d", m), key))
	}
	return s
}

func newTestEngine() *Engine {
	return NewEngine(signature.Default(), nil)
}

// TestPurge_AllData verifies completeness: model, both regular definitions
// with their instances, and all materials are purged; the image definition
// and its instances are untouched.
func TestPurge_AllData(t *testing.T) {
	s := newFixture()

	result, err := newTestEngine().Purge(model.ScopeAllData, s)
	require.NoError(t, err)

	assert.Equal(t, int64((1+1+3+1+3+5)*10), result.TotalBytes)
	assert.Equal(t, 1+1+3+1+3+5, result.DictionariesRemoved)
	assert.Equal(t, 1, s.transactions, "purge must run in exactly one transaction")

	image := s.definitions[2]
	assert.Contains(t, image.dicts, signature.LegacyKey)
	for _, inst := range image.instances {
		assert.Contains(t, inst.(*fakeEntity).dicts, signature.LegacyKey)
	}
	assert.Equal(t, 4, s.countTagged(signature.LegacyKey))
}

// TestPurge_Idempotent verifies a second purge finds nothing.
func TestPurge_Idempotent(t *testing.T) {
	s := newFixture()
	e := newTestEngine()

	_, err := e.Purge(model.ScopeAllData, s)
	require.NoError(t, err)

	second, err := e.Purge(model.ScopeAllData, s)
	require.NoError(t, err)
	assert.Equal(t, model.PurgeResult{}, second)
}

// TestPurge_MaterialsOnly verifies the scoped purge only touches materials.
func TestPurge_MaterialsOnly(t *testing.T) {
	s := newFixture()

	result, err := newTestEngine().Purge(model.ScopeMaterialsOnly, s)
	require.NoError(t, err)

	assert.Equal(t, int64(50), result.TotalBytes)
	assert.Equal(t, 5, result.DictionariesRemoved)
	assert.Contains(t, s.model.dicts, signature.LegacyKey)
	for _, def := range s.definitions {
		assert.Contains(t, def.dicts, signature.LegacyKey)
		for _, inst := range def.instances {
			assert.Contains(t, inst.(*fakeEntity).dicts, signature.LegacyKey)
		}
	}
	for _, m := range s.materials {
		assert.NotContains(t, m.dicts, signature.LegacyKey)
	}
}

// TestPurge_SettingsAndMaterials verifies the model and materials are purged
// while definitions and instances are skipped.
func TestPurge_SettingsAndMaterials(t *testing.T) {
	s := newFixture()

	result, err := newTestEngine().Purge(model.ScopeSettingsAndMaterials, s)
	require.NoError(t, err)

	assert.Equal(t, int64(60), result.TotalBytes)
	assert.Equal(t, 6, result.DictionariesRemoved)
	assert.NotContains(t, s.model.dicts, signature.LegacyKey)
	assert.Contains(t, s.definitions[0].dicts, signature.LegacyKey)
}

// TestPurge_RollsBackOnFailure verifies a failed deletion aborts the whole
// purge: no dictionary is removed and no byte count is reported.
func TestPurge_RollsBackOnFailure(t *testing.T) {
	s := newFixture()
	s.materials[3].failOn = true

	result, err := newTestEngine().Purge(model.ScopeAllData, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mat-3")
	assert.Contains(t, err.Error(), "entity is locked")

	assert.Equal(t, model.PurgeResult{}, result)
	assert.Equal(t, 1, s.rollbacks)
	assert.Equal(t, 1+4+4+4+5, s.countTagged(signature.LegacyKey), "every dictionary must survive")
}

// TestPurge_MaterialReorder simulates a host that moves a material to the end
// of its collection whenever it changes. Each material is still purged once.
func TestPurge_MaterialReorder(t *testing.T) {
	s := newFixture()
	for _, m := range s.materials {
		m.onDelete = func() {
			for i, x := range s.materials {
				if x == m {
					s.materials = append(append(s.materials[:i:i], s.materials[i+1:]...), m)
					break
				}
			}
		}
	}

	result, err := newTestEngine().Purge(model.ScopeMaterialsOnly, s)
	require.NoError(t, err)
	assert.Equal(t, 5, result.DictionariesRemoved)
	for _, m := range s.materials {
		assert.Empty(t, m.dicts)
	}
}

// TestPurge_DuplicateHandles verifies an entity reachable twice is counted once.
func TestPurge_DuplicateHandles(t *testing.T) {
	s := newFixture()
	s.materials = append(s.materials, s.materials[0])

	result, err := newTestEngine().Purge(model.ScopeMaterialsOnly, s)
	require.NoError(t, err)
	assert.Equal(t, 5, result.DictionariesRemoved)
}

// TestPurge_MultipleKeys verifies every resolved key of the table is purged
// and unrelated dictionaries are kept.
func TestPurge_MultipleKeys(t *testing.T) {
	sigs, err := signature.Default().Merge([]signature.Spec{{Version: "1.48", Key: "{NEWER}"}})
	require.NoError(t, err)

	s := &fakeScene{model: newEntity("model", signature.LegacyKey, "{NEWER}", "SU_DefinitionSet")}
	result, err := NewEngine(sigs, nil).Purge(model.ScopeAllData, s)
	require.NoError(t, err)

	assert.Equal(t, 2, result.DictionariesRemoved)
	assert.Equal(t, int64(20), result.TotalBytes)
	assert.Contains(t, s.model.dicts, "SU_DefinitionSet")
}

// TestPurge_InvalidScope verifies an unknown scope is rejected before any
// deletion.
func TestPurge_InvalidScope(t *testing.T) {
	s := newFixture()
	_, err := newTestEngine().Purge(model.PurgeScope("bogus"), s)
	assert.Error(t, err)
	assert.Equal(t, 1+4+4+4+5, s.countTagged(signature.LegacyKey))
}

// TestScan verifies the dry run reports findings in traversal order and
// changes nothing.
func TestScan(t *testing.T) {
	s := newFixture()

	report, err := newTestEngine().Scan(model.ScopeAllData, s)
	require.NoError(t, err)

	require.Len(t, report.Findings, 14)
	assert.Equal(t, "model", report.Findings[0].EntityID)
	assert.Equal(t, KindModel, report.Findings[0].Kind)
	assert.Equal(t, "def-0", report.Findings[1].EntityID)
	assert.Equal(t, KindDefinition, report.Findings[1].Kind)
	assert.Equal(t, "def-0-inst-0", report.Findings[2].EntityID)
	assert.Equal(t, KindInstance, report.Findings[2].Kind)
	assert.Equal(t, "def-1", report.Findings[5].EntityID)
	assert.Equal(t, "mat-0", report.Findings[9].EntityID)
	assert.Equal(t, KindMaterial, report.Findings[13].Kind)
	assert.Equal(t, int64(140), report.Total.TotalBytes)
	require.Len(t, report.Tagged, 14)
	assert.Equal(t, "model", report.Tagged[0])
	assert.NotContains(t, report.Tagged, "def-2", "image definitions are not traversed")

	assert.Equal(t, 0, s.transactions)
	assert.Equal(t, 1+4+4+4+5, s.countTagged(signature.LegacyKey))
}

func TestHasMetadata(t *testing.T) {
	e := newTestEngine()
	assert.True(t, e.HasMetadata(newEntity("a", signature.LegacyKey)))
	assert.False(t, e.HasMetadata(newEntity("b", "other")))
}

// TestScan_TaggedOncePerEntity verifies an entity carrying several tagged
// dictionaries is listed once.
func TestScan_TaggedOncePerEntity(t *testing.T) {
	sigs, err := signature.Default().Merge([]signature.Spec{{Version: "1.48", Key: "{new-key}"}})
	require.NoError(t, err)
	s := &fakeScene{model: newEntity("model", signature.LegacyKey, "{new-key}", "other")}
	s.materials = append(s.materials, newEntity("mat-0", "other"))

	report, err := NewEngine(sigs, nil).Scan(model.ScopeAllData, s)
	require.NoError(t, err)

	assert.Len(t, report.Findings, 2)
	assert.Equal(t, []string{"model"}, report.Tagged)
}
