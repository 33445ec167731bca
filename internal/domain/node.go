// Package domain holds the data model served by the API. Graph nodes are
// schema-less property records; identity is the nom property, unique per
// label at the application level.
package domain

// Properties is the attribute map of a single node.
type Properties map[string]any

// Node labels known to the store.
const (
	LabelEntrepot    = "Entrepot"
	LabelProduit     = "Produit"
	LabelFournisseur = "Fournisseur"
)

// Relation is one incident edge of a node: the node itself, the relationship
// type tag, and the node on the other end, regardless of direction.
type Relation struct {
	Node      Properties
	Type      string
	Connected Properties
}

// Edge is one directed start-[type]->end triple from the store-wide scan.
type Edge struct {
	Start Properties
	End   Properties
	Type  string
}
