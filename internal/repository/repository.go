// Package repository implements the graph persistence operations behind the
// API. Every method runs exactly one parameterized cypher statement; the
// check-then-write sequencing lives in the handlers.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/adupont/stockgraph/backend/internal/domain"
	"github.com/adupont/stockgraph/backend/internal/graph"
)

// Statement templates. The label placeholder is always filled from the
// domain.Label* constants, never from request input.
const (
	listTemplate      = "MATCH (n:%s) RETURN n"
	findTemplate      = "MATCH (n:%s) WHERE n.nom = $id RETURN n"
	createTemplate    = "CREATE (n:%s) SET n = $props RETURN n"
	nameTakenTemplate = "MATCH (n:%s) WHERE n.nom = $nom AND n.nom <> $id RETURN n"
	updateTemplate    = "MATCH (n:%s) WHERE n.nom = $id SET n = $props RETURN n"
	deleteTemplate    = "MATCH (n:%s) WHERE n.nom = $id DETACH DELETE n RETURN 1 as deleted"
	relationsTemplate = "MATCH (n:%s)-[r]-(m) WHERE n.nom = $id RETURN n, r, m"
	edgesQuery        = "MATCH (n)-[r]->(m) RETURN n, r, m"
	relateTemplate    = "MATCH (a:%s) WHERE a.nom = $from MATCH (b:%s) WHERE b.nom = $to MERGE (a)-[r:%s]->(b) RETURN type(r) as relation"
)

// Repository encapsulates graph access for every node label.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// ListByLabel returns the properties of every node carrying the label, in
// store order. The result is never nil so an empty store serializes as [].
func (r *Repository) ListByLabel(ctx context.Context, label string) ([]domain.Properties, error) {
	res, err := r.client.ExecuteRead(ctx, fmt.Sprintf(listTemplate, label), nil)
	if err != nil {
		return nil, fmt.Errorf("list %s nodes: %w", label, err)
	}

	items := make([]domain.Properties, 0, len(res.Records))
	for _, record := range res.Records {
		if props, ok := graph.NodeProperties(record["n"]); ok {
			items = append(items, props)
		}
	}
	return items, nil
}

// FindByName looks up a node by its nom property. The second return value
// reports whether a node was found. Multiple matches truncate to the first.
func (r *Repository) FindByName(ctx context.Context, label, name string) (domain.Properties, bool, error) {
	res, err := r.client.ExecuteRead(ctx, fmt.Sprintf(findTemplate, label), map[string]any{"id": name})
	if err != nil {
		return nil, false, fmt.Errorf("find %s %q: %w", label, name, err)
	}
	if len(res.Records) == 0 {
		return nil, false, nil
	}
	props, ok := graph.NodeProperties(res.Records[0]["n"])
	if !ok {
		return nil, false, fmt.Errorf("find %s %q: result is not a node", label, name)
	}
	return props, true, nil
}

// CreateNode creates a node with the given properties and returns the stored
// property map.
func (r *Repository) CreateNode(ctx context.Context, label string, props domain.Properties) (domain.Properties, error) {
	res, err := r.client.ExecuteWrite(ctx, fmt.Sprintf(createTemplate, label), map[string]any{
		"props": map[string]any(props),
	})
	if err != nil {
		return nil, fmt.Errorf("create %s node: %w", label, err)
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("create %s node: no node returned", label)
	}
	stored, ok := graph.NodeProperties(res.Records[0]["n"])
	if !ok {
		return nil, fmt.Errorf("create %s node: result is not a node", label)
	}
	return stored, nil
}

// NameTakenByOther reports whether a node of the label other than the one
// identified by current already holds the candidate nom.
func (r *Repository) NameTakenByOther(ctx context.Context, label, candidate, current string) (bool, error) {
	res, err := r.client.ExecuteRead(ctx, fmt.Sprintf(nameTakenTemplate, label), map[string]any{
		"nom": candidate,
		"id":  current,
	})
	if err != nil {
		return false, fmt.Errorf("duplicate check %s %q: %w", label, candidate, err)
	}
	return len(res.Records) > 0, nil
}

// UpdateNode replaces every property of the node identified by current,
// including nom, and returns the stored property map. Full replace, not a
// patch.
func (r *Repository) UpdateNode(ctx context.Context, label, current string, props domain.Properties) (domain.Properties, error) {
	res, err := r.client.ExecuteWrite(ctx, fmt.Sprintf(updateTemplate, label), map[string]any{
		"id":    current,
		"props": map[string]any(props),
	})
	if err != nil {
		return nil, fmt.Errorf("update %s %q: %w", label, current, err)
	}
	if len(res.Records) == 0 {
		return nil, fmt.Errorf("update %s %q: no node returned", label, current)
	}
	stored, ok := graph.NodeProperties(res.Records[0]["n"])
	if !ok {
		return nil, fmt.Errorf("update %s %q: result is not a node", label, current)
	}
	return stored, nil
}

// DeleteNode removes the node and all incident relationships in one detach
// delete. The returned bool reports whether the statement confirmed the
// deletion; false with a nil error means the store yielded no effect.
func (r *Repository) DeleteNode(ctx context.Context, label, name string) (bool, error) {
	res, err := r.client.ExecuteWrite(ctx, fmt.Sprintf(deleteTemplate, label), map[string]any{"id": name})
	if err != nil {
		return false, fmt.Errorf("delete %s %q: %w", label, name, err)
	}
	return len(res.Records) > 0, nil
}

// NodeRelations returns one entry per edge incident to the named node,
// regardless of direction. A node with N edges yields N entries.
func (r *Repository) NodeRelations(ctx context.Context, label, name string) ([]domain.Relation, error) {
	res, err := r.client.ExecuteRead(ctx, fmt.Sprintf(relationsTemplate, label), map[string]any{"id": name})
	if err != nil {
		return nil, fmt.Errorf("relations of %s %q: %w", label, name, err)
	}

	relations := make([]domain.Relation, 0, len(res.Records))
	for _, record := range res.Records {
		node, okN := graph.NodeProperties(record["n"])
		relType, okR := graph.RelationshipType(record["r"])
		connected, okM := graph.NodeProperties(record["m"])
		if !okN || !okR || !okM {
			return nil, errors.New("relations query returned an unexpected record shape")
		}
		relations = append(relations, domain.Relation{
			Node:      node,
			Type:      relType,
			Connected: connected,
		})
	}
	return relations, nil
}

// RelateNodes merges a directed relationship of the given type between two
// existing nodes identified by label and nom. Used by the seed loader; the
// API itself never creates relationships.
func (r *Repository) RelateNodes(ctx context.Context, fromLabel, fromName, relType, toLabel, toName string) error {
	query := fmt.Sprintf(relateTemplate, fromLabel, toLabel, relType)
	_, err := r.client.ExecuteWrite(ctx, query, map[string]any{
		"from": fromName,
		"to":   toName,
	})
	if err != nil {
		return fmt.Errorf("relate %s %q -[%s]-> %s %q: %w", fromLabel, fromName, relType, toLabel, toName, err)
	}
	return nil
}

// AllEdges runs the store-wide directed edge scan used by the graph
// visualization endpoint. No filtering, no pagination.
func (r *Repository) AllEdges(ctx context.Context) ([]domain.Edge, error) {
	res, err := r.client.ExecuteRead(ctx, edgesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("scan edges: %w", err)
	}

	edges := make([]domain.Edge, 0, len(res.Records))
	for _, record := range res.Records {
		start, okN := graph.NodeProperties(record["n"])
		relType, okR := graph.RelationshipType(record["r"])
		end, okM := graph.NodeProperties(record["m"])
		if !okN || !okR || !okM {
			return nil, errors.New("edge scan returned an unexpected record shape")
		}
		edges = append(edges, domain.Edge{Start: start, End: end, Type: relType})
	}
	return edges, nil
}
