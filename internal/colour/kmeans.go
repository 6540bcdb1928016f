// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"cmp"
	"fmt"
	"image"
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultMaxIterations is the iteration cap applied when none is configured.
const DefaultMaxIterations = 1000

// Aggregation selects how the members of a cluster are reduced to its centroid.
type Aggregation string

const (
	// AggregationMedian takes the per-channel median of the members (default).
	AggregationMedian Aggregation = "median"

	// AggregationMean takes the per-channel integer mean of the members.
	AggregationMean Aggregation = "mean"
)

// ParseAggregation converts a string to an Aggregation.
func ParseAggregation(s string) (Aggregation, error) {
	switch a := Aggregation(strings.ToLower(s)); a {
	case AggregationMedian, AggregationMean:
		return a, nil
	default:
		return "", fmt.Errorf("invalid aggregation: %s (valid: mean, median)", s)
	}
}

// Centroid is the representative colour of one cluster. Count is the sum of
// its members' pixel counts for the current pass.
type Centroid struct {
	RGB   RGB
	Count uint64
}

// KMeansConfig configures a KMeansClusterer. Zero values select the defaults.
type KMeansConfig struct {
	// Aggregation selects mean or median centroids (default median).
	Aggregation Aggregation
	// MaxIterations caps the Lloyd iterations (default DefaultMaxIterations).
	MaxIterations int
	// Logger receives seeding and convergence diagnostics.
	Logger hclog.Logger
}

// KMeansClusterer groups colour buckets into K clusters using k-means++
// seeding followed by Lloyd iterations.
type KMeansClusterer struct {
	rng           *rand.Rand
	aggregation   Aggregation
	maxIterations int
	logger        hclog.Logger
}

// NewKMeansClusterer creates a clusterer drawing from rng. A nil rng falls
// back to a time-seeded generator.
func NewKMeansClusterer(rng *rand.Rand, cfg KMeansConfig) *KMeansClusterer {
	if rng == nil {
		// #nosec G404 -- seeding does not need a cryptographic source
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c := &KMeansClusterer{
		rng:           rng,
		aggregation:   cfg.Aggregation,
		maxIterations: cfg.MaxIterations,
		logger:        cfg.Logger,
	}
	if c.aggregation == "" {
		c.aggregation = AggregationMedian
	}
	if c.maxIterations < 1 {
		c.maxIterations = DefaultMaxIterations
	}
	if c.logger == nil {
		c.logger = hclog.NewNullLogger()
	}
	return c
}

// Cluster returns exactly k centroids ordered by descending pixel count.
// Equal counts keep their cluster order.
func (c *KMeansClusterer) Cluster(buckets []Bucket, k int) ([]Centroid, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidClusterCount, k)
	}
	if len(buckets) == 0 {
		return nil, ErrEmptyPalette
	}
	if len(buckets) < k {
		return nil, &InsufficientColoursError{K: k, Found: len(buckets)}
	}

	centroids := c.seed(buckets, k)
	p := newPartition(len(buckets), k)

	stable := false
	for iter := 1; iter <= c.maxIterations; iter++ {
		changed := p.assign(buckets, centroids)
		if changed > 0 && iter == c.maxIterations {
			return nil, &NonConvergenceError{Iterations: c.maxIterations}
		}
		p.recompute(buckets, centroids, c.aggregation)
		c.logger.Trace("k-means pass", "iteration", iter, "reassigned", changed)

		if changed > 0 {
			stable = false
			continue
		}
		if stable {
			c.logger.Debug("k-means converged", "iterations", iter, "k", k, "buckets", len(buckets))
			break
		}
		stable = true
	}

	slices.SortStableFunc(centroids, func(a, b Centroid) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return centroids, nil
}

// seed picks k initial centroids with k-means++. Every bucket is a single
// sample regardless of its pixel count.
func (c *KMeansClusterer) seed(buckets []Bucket, k int) []Centroid {
	centroids := make([]Centroid, 0, k)
	centroids = append(centroids, Centroid(buckets[c.rng.Intn(len(buckets))]))

	// weights[i] is the squared distance from bucket i to its nearest seed.
	weights := make([]float64, len(buckets))
	for i, b := range buckets {
		weights[i] = float64(distanceSq(b.RGB, centroids[0].RGB))
	}

	for len(centroids) < k {
		total := 0.0
		for _, w := range weights {
			total += w
		}

		target := c.rng.Float64() * total
		selected := pickWeighted(weights, target)
		if selected < 0 {
			selected = lastPositive(weights)
			c.logger.Debug("k-means++ draw fell past cumulative weight, using last candidate",
				"target", target, "total", total, "bucket", selected)
		}

		next := Centroid(buckets[selected])
		centroids = append(centroids, next)
		for i, b := range buckets {
			if d := float64(distanceSq(b.RGB, next.RGB)); d < weights[i] {
				weights[i] = d
			}
		}
	}

	return centroids
}

// pickWeighted walks weights in order and returns the first index whose
// running sum exceeds target, or -1 if rounding leaves the sum short.
func pickWeighted(weights []float64, target float64) int {
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if cumulative > target {
			return i
		}
	}
	return -1
}

// lastPositive returns the index of the last non-zero weight.
func lastPositive(weights []float64) int {
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Nearest returns the index of the centroid closest to c. Ties resolve to the
// lowest index.
func Nearest(c RGB, centroids []Centroid) int {
	nearest := 0
	best := distanceSq(c, centroids[0].RGB)
	for i := 1; i < len(centroids); i++ {
		if d := distanceSq(c, centroids[i].RGB); d < best {
			best = d
			nearest = i
		}
	}
	return nearest
}

// partition holds the per-pass cluster membership. The K slots are reused
// across passes and hold indices into the bucket slice.
type partition struct {
	assignments []int
	slots       [][]int
	scratch     []uint8
}

func newPartition(n, k int) *partition {
	return &partition{
		// Every bucket starts in cluster 0.
		assignments: make([]int, n),
		slots:       make([][]int, k),
		scratch:     make([]uint8, 0, n),
	}
}

// assign moves every bucket to its nearest centroid and returns how many
// buckets changed cluster.
func (p *partition) assign(buckets []Bucket, centroids []Centroid) int {
	for i := range p.slots {
		p.slots[i] = p.slots[i][:0]
	}

	changed := 0
	for i, b := range buckets {
		nearest := Nearest(b.RGB, centroids)
		if nearest != p.assignments[i] {
			p.assignments[i] = nearest
			changed++
		}
		p.slots[nearest] = append(p.slots[nearest], i)
	}
	return changed
}

// recompute updates each centroid from its current members. An empty cluster
// keeps its colour with a zero count.
func (p *partition) recompute(buckets []Bucket, centroids []Centroid, a Aggregation) {
	for j, members := range p.slots {
		if len(members) == 0 {
			centroids[j].Count = 0
			continue
		}

		var count uint64
		for _, i := range members {
			count += buckets[i].Count
		}

		var rgb RGB
		if a == AggregationMean {
			rgb = meanOf(buckets, members)
		} else {
			rgb = RGB{
				R: p.median(buckets, members, func(c RGB) uint8 { return c.R }),
				G: p.median(buckets, members, func(c RGB) uint8 { return c.G }),
				B: p.median(buckets, members, func(c RGB) uint8 { return c.B }),
			}
		}
		centroids[j] = Centroid{RGB: rgb, Count: count}
	}
}

// meanOf returns the per-channel integer mean of the members, unweighted by count.
func meanOf(buckets []Bucket, members []int) RGB {
	var r, g, b int
	for _, i := range members {
		r += int(buckets[i].RGB.R)
		g += int(buckets[i].RGB.G)
		b += int(buckets[i].RGB.B)
	}
	n := len(members)
	return RGB{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n)}
}

// median sorts one channel of the members and returns the value at len/2,
// the upper-middle element for an even member count.
func (p *partition) median(buckets []Bucket, members []int, channel func(RGB) uint8) uint8 {
	values := p.scratch[:0]
	for _, i := range members {
		values = append(values, channel(buckets[i].RGB))
	}
	slices.Sort(values)
	p.scratch = values
	return values[len(values)/2]
}

// KMeansExtractor implements Extractor on top of KMeansClusterer.
type KMeansExtractor struct {
	clusterer *KMeansClusterer
}

// NewKMeansExtractor wraps a clusterer as an Extractor.
func NewKMeansExtractor(clusterer *KMeansClusterer) *KMeansExtractor {
	return &KMeansExtractor{clusterer: clusterer}
}

// Extract builds the colour histogram of img and clusters it into count colours.
func (e *KMeansExtractor) Extract(img image.Image, count int) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	buckets := Histogram(toNRGBA(img))
	e.clusterer.logger.Debug("colour histogram built", "buckets", len(buckets))

	centroids, err := e.clusterer.Cluster(buckets, count)
	if err != nil {
		return nil, err
	}
	return PaletteFromCentroids(centroids), nil
}
