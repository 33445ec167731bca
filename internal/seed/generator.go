// Package seed produces a small deterministic inventory dataset and loads it
// into the graph store, so the API has something to serve on a fresh
// database.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/adupont/stockgraph/backend/internal/domain"
)

// Config controls dataset generation.
type Config struct {
	NumEntrepots    int
	NumProduits     int
	NumFournisseurs int
	Seed            int64
}

// DefaultConfig returns the generation defaults.
func DefaultConfig() Config {
	return Config{
		NumEntrepots:    4,
		NumProduits:     25,
		NumFournisseurs: 8,
	}
}

// Node is one labeled node to create.
type Node struct {
	Label string
	Props domain.Properties
}

// Link is one directed relationship to create between two named nodes.
type Link struct {
	FromLabel string
	FromNom   string
	Type      string
	ToLabel   string
	ToNom     string
}

// Dataset holds everything the loader writes to the store.
type Dataset struct {
	Nodes []Node
	Links []Link
}

// Generator produces synthetic inventory data.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.NumEntrepots <= 0 {
		cfg.NumEntrepots = defaults.NumEntrepots
	}
	if cfg.NumProduits <= 0 {
		cfg.NumProduits = defaults.NumProduits
	}
	if cfg.NumFournisseurs <= 0 {
		cfg.NumFournisseurs = defaults.NumFournisseurs
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

var (
	regions = []string{"Nord", "Sud", "Est", "Ouest", "Centre", "Littoral", "Rhone", "Atlantique"}
	villes  = []string{"Paris", "Lyon", "Marseille", "Lille", "Nantes", "Bordeaux", "Toulouse", "Strasbourg"}
	denrees = []string{"Cafe", "The", "Riz", "Farine", "Sucre", "Huile", "Sel", "Cacao", "Miel", "Pates"}
)

// Generate synthesises warehouses, products, suppliers and the FOURNIT and
// STOCKE relationships linking them. Same seed, same dataset.
func (g *Generator) Generate() Dataset {
	var ds Dataset

	entrepots := make([]string, 0, g.cfg.NumEntrepots)
	for i := 0; i < g.cfg.NumEntrepots; i++ {
		nom := fmt.Sprintf("Entrepot %s %d", regions[i%len(regions)], i+1)
		entrepots = append(entrepots, nom)
		ds.Nodes = append(ds.Nodes, Node{
			Label: domain.LabelEntrepot,
			Props: domain.Properties{
				"nom":            nom,
				"prix":           g.rand.Intn(900) + 100,
				"quantite_stock": g.rand.Intn(5000),
			},
		})
	}

	fournisseurs := make([]string, 0, g.cfg.NumFournisseurs)
	for i := 0; i < g.cfg.NumFournisseurs; i++ {
		ville := villes[g.rand.Intn(len(villes))]
		nom := fmt.Sprintf("Fournisseur %s %d", ville, i+1)
		fournisseurs = append(fournisseurs, nom)
		ds.Nodes = append(ds.Nodes, Node{
			Label: domain.LabelFournisseur,
			Props: domain.Properties{
				"nom":     nom,
				"ville":   ville,
				"contact": fmt.Sprintf("contact%d@%s.example", i+1, strings.ToLower(ville)),
			},
		})
	}

	for i := 0; i < g.cfg.NumProduits; i++ {
		nom := fmt.Sprintf("%s %03d", denrees[i%len(denrees)], i+1)
		ds.Nodes = append(ds.Nodes, Node{
			Label: domain.LabelProduit,
			Props: domain.Properties{
				"nom":            nom,
				"prix":           g.rand.Intn(495) + 5,
				"quantite_stock": g.rand.Intn(200),
			},
		})

		ds.Links = append(ds.Links, Link{
			FromLabel: domain.LabelFournisseur,
			FromNom:   fournisseurs[g.rand.Intn(len(fournisseurs))],
			Type:      "FOURNIT",
			ToLabel:   domain.LabelProduit,
			ToNom:     nom,
		})
		ds.Links = append(ds.Links, Link{
			FromLabel: domain.LabelEntrepot,
			FromNom:   entrepots[g.rand.Intn(len(entrepots))],
			Type:      "STOCKE",
			ToLabel:   domain.LabelProduit,
			ToNom:     nom,
		})
	}

	return ds
}
