package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nhle/packlist/internal/model"
)

//go:embed builtin.yaml
var builtinYAML []byte

// fileCondition is the on-disk shape of a condition with its nested rules.
type fileCondition struct {
	model.Condition `yaml:",inline"`
	Rules           []model.Rule `yaml:"rules"`
}

type catalogFile struct {
	Conditions []fileCondition `yaml:"conditions"`
}

// ImportResult reports what an import added.
type ImportResult struct {
	Conditions []model.Condition
	Rules      []model.Rule
}

// SeedBuiltins adds the shipped conditions and rules, flagged as built-in.
// Conditions already present by id are skipped with their rules.
func (c *Catalog) SeedBuiltins() (ImportResult, error) {
	return c.importYAML(bytes.NewReader(builtinYAML), true)
}

// ImportYAML adds user-defined conditions and rules from a YAML document of
// the same shape as the built-in catalog. An id that is already taken fails
// the import with apperrors.ErrInvalidInput.
func (c *Catalog) ImportYAML(r io.Reader) (ImportResult, error) {
	return c.importYAML(r, false)
}

func (c *Catalog) importYAML(r io.Reader, builtIn bool) (ImportResult, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return ImportResult{}, fmt.Errorf("decoding catalog yaml: %w", err)
	}

	var res ImportResult
	for _, fc := range file.Conditions {
		if builtIn && fc.ID != "" && c.indexOfCondition(fc.ID) >= 0 {
			continue
		}
		cond := fc.Condition
		cond.BuiltIn = builtIn
		added, err := c.AddCondition(cond)
		if err != nil {
			return res, fmt.Errorf("importing condition %q: %w", fc.Name, err)
		}
		res.Conditions = append(res.Conditions, added)

		for _, rule := range fc.Rules {
			rule.ConditionID = added.ID
			addedRule, err := c.AddRule(rule)
			if err != nil {
				return res, fmt.Errorf("importing rule %q of %q: %w", rule.TargetItem, added.Name, err)
			}
			res.Rules = append(res.Rules, addedRule)
		}
	}
	// Rule counts on the returned conditions reflect the finished import.
	for i := range res.Conditions {
		res.Conditions[i].RuleCount = c.countRules(res.Conditions[i].ID)
	}
	return res, nil
}
