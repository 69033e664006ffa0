// Package cluster groups Central Directory fingerprints into k clusters
// by authorial parameters (timestamp, method, versions, flags) using
// k-means. It implements component E of the reconstruction pipeline.
package cluster

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ErrNoConvergence is returned when Lloyd's algorithm fails to stabilise
// within MaxIterations. The driver treats this as a ClusteringFailure:
// the archive set is non-recoverable for this run.
var ErrNoConvergence = errors.New("cluster: k-means did not converge")

// MaxIterations bounds k-means work at (iterations * k * |points|),
// preventing unbounded work on pathological input.
const MaxIterations = 100

// Point is a 5-dimensional fingerprint plus the caller's index into its
// original input slice, so KMeans's output can be mapped straight back to
// CDInstance values without the clustering engine knowing what a
// CDInstance is.
type Point struct {
	Fingerprint [5]float64
	Index       int
}

// KMeans clusters points into k groups and returns, for each cluster, the
// indices (Point.Index) of its members.
//
// Centroid initialisation uses k-means++ weighted sampling,
// seeded deterministically by hashing the serialized fingerprint set with
// xxhash, so a given CD population always clusters the same way across
// runs.
func KMeans(points []Point, k int) ([][]int, error) {
	if k <= 0 || len(points) == 0 {
		return nil, errors.New("cluster: k-means requires k>0 and a non-empty point set")
	}
	if k > len(points) {
		k = len(points)
	}

	rng := newSeededRand(seedFromPoints(points))
	centroids := initPlusPlus(points, k, rng)

	assignments := make([]int, len(points))
	for i := range assignments {
		assignments[i] = -1
	}

	for iter := 0; iter < MaxIterations; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				d := sqDist(p.Fingerprint, centroid)
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		newCentroids := make([][5]float64, k)
		counts := make([]int, k)
		for i, p := range points {
			c := assignments[i]
			for d := 0; d < 5; d++ {
				newCentroids[c][d] += p.Fingerprint[d]
			}
			counts[c]++
		}
		for c := range newCentroids {
			if counts[c] == 0 {
				continue // keep the previous centroid for an emptied cluster
			}
			for d := 0; d < 5; d++ {
				newCentroids[c][d] /= float64(counts[c])
			}
			centroids[c] = newCentroids[c]
		}

		if !changed && iter > 0 {
			return toClusters(assignments, k), nil
		}
	}

	return nil, ErrNoConvergence
}

func toClusters(assignments []int, k int) [][]int {
	clusters := make([][]int, k)
	for i, c := range assignments {
		clusters[c] = append(clusters[c], i)
	}
	return clusters
}

func sqDist(a, b [5]float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// initPlusPlus picks k initial centroids by k-means++ weighted sampling:
// the first centroid is chosen uniformly, each subsequent one with
// probability proportional to its squared distance from the nearest
// already-chosen centroid.
func initPlusPlus(points []Point, k int, rng *seededRand) [][5]float64 {
	centroids := make([][5]float64, 0, k)
	first := points[rng.intn(len(points))]
	centroids = append(centroids, first.Fingerprint)

	for len(centroids) < k {
		weights := make([]float64, len(points))
		var total float64
		for i, p := range points {
			best := math.Inf(1)
			for _, c := range centroids {
				if d := sqDist(p.Fingerprint, c); d < best {
					best = d
				}
			}
			weights[i] = best
			total += best
		}
		if total == 0 {
			// All remaining points coincide with chosen centroids; pad
			// with duplicates rather than looping forever.
			centroids = append(centroids, points[rng.intn(len(points))].Fingerprint)
			continue
		}
		target := rng.float64() * total
		var acc float64
		chosen := len(points) - 1
		for i, w := range weights {
			acc += w
			if acc >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, points[chosen].Fingerprint)
	}
	return centroids
}

// seedFromPoints derives a deterministic seed from the fingerprint set so
// that the same CD population always clusters the same way.
func seedFromPoints(points []Point) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, p := range points {
		for _, v := range p.Fingerprint {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}

// seededRand is a tiny deterministic PRNG (splitmix64) so cluster.KMeans
// has no dependency on math/rand's global state or a time-based seed.
type seededRand struct{ state uint64 }

func newSeededRand(seed uint64) *seededRand { return &seededRand{state: seed} }

func (r *seededRand) next() uint64 {
	r.state += 0x9E3779B97F4A7C15
	z := r.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func (r *seededRand) float64() float64 {
	return float64(r.next()>>11) / float64(1<<53)
}

func (r *seededRand) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}
