package recommend

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

const (
	treeFile  = "decision_tree.json"
	rulesFile = "association_rules.json"
)

// Artifacts are the externally trained models, exported to JSON by the
// offline training pipeline.
type Artifacts struct {
	Tree  *treeNode
	Rules []AssociationRule
}

type AssociationRule struct {
	Antecedent string  `json:"antecedent"`
	Consequent string  `json:"consequent"`
	Confidence float64 `json:"confidence"`
}

// treeNode is either an internal split (Feature set) or a leaf (Category
// set).
type treeNode struct {
	Feature   string    `json:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty"`
	Left      *treeNode `json:"left,omitempty"`
	Right     *treeNode `json:"right,omitempty"`
	Category  string    `json:"category,omitempty"`
}

func (n *treeNode) classify(features map[string]float64) string {
	node := n
	for node != nil {
		if node.Feature == "" {
			return node.Category
		}
		if features[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return ""
}

// LoadArtifacts reads the model files from dir. Missing files disable the
// corresponding capability instead of failing startup; only malformed files
// are reported.
func LoadArtifacts(dir string, logger *zap.Logger) *Artifacts {
	artifacts := &Artifacts{}

	var tree treeNode
	if ok := loadJSON(filepath.Join(dir, treeFile), &tree, logger); ok {
		artifacts.Tree = &tree
	}
	loadJSON(filepath.Join(dir, rulesFile), &artifacts.Rules, logger)
	return artifacts
}

func loadJSON(path string, v any, logger *zap.Logger) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("model artifact unreadable", zap.String("path", path), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("model artifact malformed", zap.String("path", path), zap.Error(err))
		return false
	}
	logger.Info("model artifact loaded", zap.String("path", path))
	return true
}
