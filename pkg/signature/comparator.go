package signature

import (
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Comparison methods for Diagnose.
const (
	MethodEuclidean = "euclidean"
	MethodCosine    = "cosine"
)

// Residual holds element-wise residual statistics of live minus
// predicted.
type Residual struct {
	Vector []float64 `json:"residual_vector"`
	Max    float64   `json:"max_residual"`
	Mean   float64   `json:"mean_residual"`
	RMS    float64   `json:"rms_residual"`
}

// Comparison is the per-signature comparison record of a diagnosis.
type Comparison struct {
	Signature         string  `json:"signature"`
	EuclideanDistance float64 `json:"euclidean_distance"`
	CosineSimilarity  float64 `json:"cosine_similarity"`
	MaxResidual       float64 `json:"max_residual"`
	RMSResidual       float64 `json:"rms_residual"`
}

// Diagnosis is the outcome of comparing a live vector against the whole
// library.
type Diagnosis struct {
	ClosestSignature string       `json:"closest_signature,omitempty"`
	Distance         float64      `json:"distance"`
	CosineSimilarity float64      `json:"cosine_similarity"`
	Residual         *Residual    `json:"residual,omitempty"`
	FaultDetected    bool         `json:"fault_detected"`
	Message          string       `json:"message,omitempty"`
	Comparisons      []Comparison `json:"all_comparisons"`
}

// Comparator diagnoses live vectors against every signature in a Store.
type Comparator struct {
	store  *Store
	logger zerolog.Logger
}

// NewComparator creates a comparator over store.
func NewComparator(store *Store) *Comparator {
	return &Comparator{
		store:  store,
		logger: log.With().Str("component", "comparator").Logger(),
	}
}

// EuclideanDistance returns the L2 distance between two equally long
// vectors.
func EuclideanDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns the cosine similarity in [-1, 1], or 0 when
// either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	dot, normA, normB := 0.0, 0.0, 0.0
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// ComputeResidual returns element-wise residual statistics of live minus
// predicted over equally long vectors.
func ComputeResidual(live, predicted []float64) *Residual {
	residual := make([]float64, len(live))
	maxAbs, sumAbs, sumSq := 0.0, 0.0, 0.0
	for i := range live {
		r := live[i] - predicted[i]
		residual[i] = r
		abs := math.Abs(r)
		if abs > maxAbs {
			maxAbs = abs
		}
		sumAbs += abs
		sumSq += r * r
	}

	n := float64(len(live))
	res := &Residual{Vector: residual, Max: maxAbs}
	if n > 0 {
		res.Mean = sumAbs / n
		res.RMS = math.Sqrt(sumSq / n)
	}
	return res
}

// Diagnose compares live against every stored signature, truncating each
// pair to the shorter length, and picks the best match by euclidean
// distance (or 1-cosine when method is "cosine"). A fault is flagged when
// the best match's maximum residual exceeds threshold. An empty library
// flags a fault with an explanatory message rather than an error.
func (c *Comparator) Diagnose(live []float64, threshold float64, method string) *Diagnosis {
	library := c.store.Library()
	if len(library) == 0 {
		return &Diagnosis{
			FaultDetected: true,
			Message:       "no signatures in store for comparison",
			Comparisons:   []Comparison{},
		}
	}

	var (
		comparisons []Comparison
		bestName    string
		bestScore   = math.Inf(1)
	)

	names := make([]string, 0, len(library))
	for name := range library {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		stored := library[name]
		l, s := truncatePair(live, stored)

		euc := EuclideanDistance(l, s)
		cos := CosineSimilarity(l, s)
		res := ComputeResidual(l, s)

		score := euc
		if method == MethodCosine {
			score = 1.0 - cos
		}

		comparisons = append(comparisons, Comparison{
			Signature:         name,
			EuclideanDistance: euc,
			CosineSimilarity:  cos,
			MaxResidual:       res.Max,
			RMSResidual:       res.RMS,
		})

		if score < bestScore {
			bestScore = score
			bestName = name
		}
	}

	bestLive, bestStored := truncatePair(live, library[bestName])
	residual := ComputeResidual(bestLive, bestStored)
	faultDetected := residual.Max > threshold

	c.logger.Info().
		Str("closest", bestName).
		Float64("distance", bestScore).
		Bool("fault", faultDetected).
		Msg("diagnosis complete")

	sort.Slice(comparisons, func(i, j int) bool {
		return comparisons[i].EuclideanDistance < comparisons[j].EuclideanDistance
	})

	return &Diagnosis{
		ClosestSignature: bestName,
		Distance:         bestScore,
		CosineSimilarity: CosineSimilarity(bestLive, bestStored),
		Residual:         residual,
		FaultDetected:    faultDetected,
		Comparisons:      comparisons,
	}
}

// truncatePair trims both vectors to their common length.
func truncatePair(a, b []float64) ([]float64, []float64) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	return a[:n], b[:n]
}
