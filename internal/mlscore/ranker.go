package mlscore

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/jonathan/resume-scorer/internal/schemas"
	"github.com/jonathan/resume-scorer/internal/textutil"
)

// Ranker refines a match score from a feature vector.
type Ranker interface {
	Predict(features []float64) (float64, error)
}

// EmbeddingFeatureCount is the number of embedding-derived features passed
// to a ranker after the cross-encoder score.
const EmbeddingFeatureCount = 100

// Ranker objectives.
const (
	ObjectiveRegression = "regression"
	ObjectiveBinary     = "binary"
)

// TreeNode is either a split (Feature, Threshold, Left, Right) or a leaf.
// Samples with value <= Threshold go left; missing values follow DefaultLeft.
type TreeNode struct {
	Feature     int      `json:"feature"`
	Threshold   float64  `json:"threshold"`
	Left        int      `json:"left"`
	Right       int      `json:"right"`
	DefaultLeft bool     `json:"default_left,omitempty"`
	Leaf        *float64 `json:"leaf,omitempty"`
}

// Tree is a regression tree stored as a flat node list rooted at index 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// GBDT is a gradient-boosted tree ensemble exported as JSON.
type GBDT struct {
	Objective   string  `json:"objective"`
	BaseScore   float64 `json:"base_score"`
	NumFeatures int     `json:"num_features"`
	Trees       []Tree  `json:"trees"`
}

// LoadGBDT reads and validates a ranker model file.
func LoadGBDT(path string) (*GBDT, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ranker model: %w", err)
	}
	return ParseGBDT(data)
}

// ParseGBDT decodes a ranker model, checking it against the ranker schema
// and verifying that every tree is well formed.
func ParseGBDT(data []byte) (*GBDT, error) {
	if err := schemas.Validate(schemas.RankerModel, data); err != nil {
		return nil, err
	}
	var g GBDT
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decode ranker model: %w", err)
	}
	if g.Objective == "" {
		g.Objective = ObjectiveRegression
	}
	for ti, t := range g.Trees {
		for ni, n := range t.Nodes {
			if n.Leaf != nil {
				continue
			}
			if n.Feature >= g.NumFeatures {
				return nil, fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			// Children must follow their parent, which rules out cycles.
			if n.Left <= ni || n.Right <= ni || n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return nil, fmt.Errorf("tree %d node %d: invalid children %d/%d", ti, ni, n.Left, n.Right)
			}
		}
	}
	return &g, nil
}

// Predict sums the leaf values of every tree. Features beyond the input
// length are treated as missing; extra inputs are ignored.
func (g *GBDT) Predict(features []float64) (float64, error) {
	if g == nil || len(g.Trees) == 0 {
		return 0, fmt.Errorf("ranker has no trees")
	}
	x := make([]float64, g.NumFeatures)
	for i := range x {
		if i < len(features) {
			x[i] = features[i]
		} else {
			x[i] = math.NaN()
		}
	}

	sum := g.BaseScore
	for _, t := range g.Trees {
		sum += t.eval(x)
	}
	if g.Objective == ObjectiveBinary {
		return textutil.Sigmoid(sum), nil
	}
	return sum, nil
}

func (t Tree) eval(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return *n.Leaf
		}
		v := x[n.Feature]
		switch {
		case math.IsNaN(v):
			if n.DefaultLeft {
				i = n.Left
			} else {
				i = n.Right
			}
		case v <= n.Threshold:
			i = n.Left
		default:
			i = n.Right
		}
	}
}

// RankerFeatures builds the ranker input: the cross-encoder score followed
// by the first EmbeddingFeatureCount values of [resume, jd, |resume-jd|].
func RankerFeatures(crossEncoder float64, resume, jd []float32) []float64 {
	out := make([]float64, 0, EmbeddingFeatureCount+1)
	out = append(out, crossEncoder)
	appendVec := func(v []float32) {
		for _, x := range v {
			if len(out) > EmbeddingFeatureCount {
				return
			}
			out = append(out, float64(x))
		}
	}
	appendVec(resume)
	appendVec(jd)
	for i := 0; i < len(resume) && i < len(jd) && len(out) <= EmbeddingFeatureCount; i++ {
		out = append(out, math.Abs(float64(resume[i])-float64(jd[i])))
	}
	for len(out) <= EmbeddingFeatureCount {
		out = append(out, 0)
	}
	return out
}
