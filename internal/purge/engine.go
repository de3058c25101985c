package purge

import (
	"fmt"
	"slices"

	"github.com/ErikKalkoken/go-set"

	"github.com/shinji-kodama/render-tools/internal/log"
	"github.com/shinji-kodama/render-tools/internal/model"
	"github.com/shinji-kodama/render-tools/internal/signature"
)

// TransactionName is the undo label of a purge.
const TransactionName = "Purge Renderer Data"

// Kind names the role of a visited entity.
type Kind string

const (
	KindModel      Kind = "model"
	KindDefinition Kind = "definition"
	KindInstance   Kind = "instance"
	KindMaterial   Kind = "material"
)

// Finding is one tagged dictionary found on an entity.
type Finding struct {
	EntityID string `json:"entityId"`
	Kind     Kind   `json:"kind"`
	Key      string `json:"key"`
	Bytes    int64  `json:"bytes"`

	entity Entity
}

// Report is the result of a scan: every finding in traversal order, the
// entities carrying them and their totals.
type Report struct {
	Scope    model.PurgeScope  `json:"scope"`
	Findings []Finding         `json:"findings"`
	Tagged   []string          `json:"tagged"`
	Total    model.PurgeResult `json:"total"`
}

// Engine finds and removes foreign renderer metadata.
type Engine struct {
	signatures *signature.Table
	logger     *log.Logger
}

// NewEngine creates an Engine that recognises the resolved keys of sigs.
// Unresolved entries are logged once as a configuration gap.
func NewEngine(sigs *signature.Table, logger *log.Logger) *Engine {
	logger = log.OrNop(logger)
	for _, e := range sigs.Unresolved() {
		logger.Warnw("signature key not configured; its dictionaries will not be purged",
			"version", e.Version.Original())
	}
	return &Engine{signatures: sigs, logger: logger}
}

// Scan reports the tagged dictionaries within scope without changing the
// scene.
func (e *Engine) Scan(scope model.PurgeScope, scene Scene) (Report, error) {
	if !scope.IsValid() {
		return Report{}, fmt.Errorf("invalid purge scope %q", scope)
	}
	report := Report{Scope: scope, Findings: []Finding{}, Tagged: []string{}}
	err := e.walk(scope, scene, func(kind Kind, ent Entity) {
		if !e.HasMetadata(ent) {
			return
		}
		report.Tagged = append(report.Tagged, ent.ID())
		for _, key := range e.signatures.Keys() {
			dict, ok := ent.Dictionary(key)
			if !ok {
				continue
			}
			f := Finding{EntityID: ent.ID(), Kind: kind, Key: key, Bytes: DictionarySize(dict), entity: ent}
			report.Findings = append(report.Findings, f)
			report.Total.Add(model.PurgeResult{TotalBytes: f.Bytes, DictionariesRemoved: 1})
			e.logger.Debugw("found renderer metadata", "entity", f.EntityID, "kind", kind, "bytes", f.Bytes)
		}
	})
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

// Purge removes every tagged dictionary within scope as one transaction and
// returns the bytes and dictionaries removed.
//
// If the host fails to delete any dictionary the transaction is aborted, the
// scene is left as it was and a zero result is returned with the error.
func (e *Engine) Purge(scope model.PurgeScope, scene Scene) (model.PurgeResult, error) {
	var result model.PurgeResult
	err := scene.Transaction(TransactionName, func() error {
		report, err := e.Scan(scope, scene)
		if err != nil {
			return err
		}
		for _, f := range report.Findings {
			if err := f.entity.DeleteDictionary(f.Key); err != nil {
				return fmt.Errorf("failed to delete %s from %s %s: %w", f.Key, f.Kind, f.EntityID, err)
			}
		}
		result = report.Total
		return nil
	})
	if err != nil {
		e.logger.Warnw("purge aborted", "scope", scope, "error", err)
		return model.PurgeResult{}, err
	}
	e.logger.Infow("purge committed", "scope", scope,
		"bytes", result.TotalBytes, "dictionaries", result.DictionariesRemoved)
	return result, nil
}

// HasMetadata reports whether ent carries any tagged dictionary.
func (e *Engine) HasMetadata(ent Entity) bool {
	for _, key := range e.signatures.Keys() {
		if _, ok := ent.Dictionary(key); ok {
			return true
		}
	}
	return false
}

// walk visits the entities within scope in traversal order, each at most
// once. Materials are snapshotted before the first visit.
func (e *Engine) walk(scope model.PurgeScope, scene Scene, visit func(Kind, Entity)) error {
	materials := slices.Clone(scene.Materials())

	var seen set.Set[string]
	each := func(kind Kind, ent Entity) error {
		if ent == nil {
			return fmt.Errorf("scene returned a nil %s", kind)
		}
		if seen.Contains(ent.ID()) {
			return nil
		}
		seen.Add(ent.ID())
		visit(kind, ent)
		return nil
	}

	if scope.IncludesModel() {
		if err := each(KindModel, scene.Model()); err != nil {
			return err
		}
	}
	if scope.IncludesDefinitions() {
		for _, def := range scene.Definitions() {
			if def.IsImage() {
				continue
			}
			if err := each(KindDefinition, def); err != nil {
				return err
			}
			for _, inst := range def.Instances() {
				if err := each(KindInstance, inst); err != nil {
					return err
				}
			}
		}
	}
	for _, mat := range materials {
		if err := each(KindMaterial, mat); err != nil {
			return err
		}
	}
	return nil
}
