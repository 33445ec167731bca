package graph

import "github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

// NodeProperties extracts the property map from a node value returned by the
// driver. Plain maps are passed through so test doubles can return them
// directly.
func NodeProperties(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case dbtype.Node:
		if v.Props == nil {
			return map[string]any{}, true
		}
		return v.Props, true
	case map[string]any:
		return v, true
	default:
		return nil, false
	}
}

// RelationshipType extracts the type tag from a relationship value. Plain
// strings are passed through for test doubles.
func RelationshipType(value any) (string, bool) {
	switch v := value.(type) {
	case dbtype.Relationship:
		return v.Type, true
	case string:
		return v, true
	default:
		return "", false
	}
}
