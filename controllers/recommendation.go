package controllers

import (
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/dcode-github/rishstay/models"
)

const (
	defaultSimilarLimit = 4
	maxSimilarLimit     = 20
	similarCandidates   = 100
	priceBand           = 0.2
)

// similarityScore rates how close p is to base. Location weighs most,
// then type and price, then guest type and bedroom count.
func similarityScore(base, p *models.Property) int {
	score := 0
	if strings.EqualFold(p.Location.City, base.Location.City) {
		score += 3
	}
	if p.PropertyType == base.PropertyType {
		score += 2
	}
	if base.Price > 0 && math.Abs(p.Price-base.Price) <= base.Price*priceBand {
		score += 2
	}
	if p.GuestType == base.GuestType {
		score++
	}
	if p.Bedrooms == base.Bedrooms {
		score++
	}
	return score
}

// RankSimilar orders candidates by similarity to base, newest first among
// equal scores, and returns at most limit of them.
func RankSimilar(base *models.Property, candidates []models.Property, limit int) []models.Property {
	type scored struct {
		property models.Property
		score    int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == base.ID {
			continue
		}
		ranked = append(ranked, scored{property: c, score: similarityScore(base, &c)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].property.CreatedAt.After(ranked[j].property.CreatedAt)
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]models.Property, 0, limit)
	for _, s := range ranked[:limit] {
		out = append(out, s.property)
	}
	return out
}

func GetSimilarProperties(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id", "property")
		if !ok {
			return
		}
		ctx := r.Context()

		base, err := d.Store.PropertyByID(ctx, id)
		if err != nil {
			storeError(w, r, err, "Property not found")
			return
		}

		limit := defaultSimilarLimit
		if v := queryInt(r.URL.Query(), "limit"); v != nil && *v > 0 {
			limit = *v
		}
		if limit > maxSimilarLimit {
			limit = maxSimilarLimit
		}

		candidates, err := d.Store.SimilarCandidates(ctx, base, similarCandidates)
		if err != nil {
			internalError(w, r, "Error fetching similar properties", err)
			return
		}
		writeData(w, http.StatusOK, "Fetched similar properties", RankSimilar(base, candidates, limit))
	}
}
