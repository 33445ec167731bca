package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/adupont/stockgraph/backend/internal/domain"
	"github.com/adupont/stockgraph/backend/internal/graph"
)

func TestRepository_ListByLabel(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"n": map[string]any{"nom": "Cafe 001", "prix": int64(12), "quantite_stock": int64(40)}},
		{"n": map[string]any{"nom": "The 002", "prix": int64(8), "quantite_stock": int64(0)}},
	}})

	items, err := repo.ListByLabel(context.Background(), domain.LabelProduit)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0]["nom"] != "Cafe 001" {
		t.Errorf("unexpected first item: %v", items[0])
	}

	calls := mem.ReadCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 read query, got %d", len(calls))
	}
	if calls[0].Query != "MATCH (n:Produit) RETURN n" {
		t.Errorf("unexpected query: %s", calls[0].Query)
	}
}

func TestRepository_ListByLabel_EmptyIsNotNil(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	items, err := repo.ListByLabel(context.Background(), domain.LabelEntrepot)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if items == nil {
		t.Fatal("expected non-nil slice for empty store")
	}
	if len(items) != 0 {
		t.Fatalf("expected 0 items, got %d", len(items))
	}
}

func TestRepository_FindByName(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"n": map[string]any{"nom": "Acme", "ville": "Paris", "contact": "x@acme.io"}},
	}})

	props, found, err := repo.FindByName(context.Background(), domain.LabelFournisseur, "Acme")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !found {
		t.Fatal("expected node to be found")
	}
	if props["ville"] != "Paris" {
		t.Errorf("unexpected props: %v", props)
	}

	calls := mem.ReadCalls()
	if calls[0].Query != "MATCH (n:Fournisseur) WHERE n.nom = $id RETURN n" {
		t.Errorf("unexpected query: %s", calls[0].Query)
	}
	if calls[0].Params["id"] != "Acme" {
		t.Errorf("unexpected params: %v", calls[0].Params)
	}
}

func TestRepository_FindByName_Missing(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	props, found, err := repo.FindByName(context.Background(), domain.LabelFournisseur, "Nobody")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found || props != nil {
		t.Fatalf("expected no match, got %v", props)
	}
}

func TestRepository_FindByName_TruncatesToFirst(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"n": map[string]any{"nom": "Dup", "ville": "Lyon"}},
		{"n": map[string]any{"nom": "Dup", "ville": "Lille"}},
	}})

	props, found, err := repo.FindByName(context.Background(), domain.LabelFournisseur, "Dup")
	if err != nil || !found {
		t.Fatalf("expected match, got found=%v err=%v", found, err)
	}
	if props["ville"] != "Lyon" {
		t.Errorf("expected first record to win, got %v", props)
	}
}

func TestRepository_CreateNode(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	props := domain.Properties{"nom": "Cafe 001", "prix": 12, "quantite_stock": 40}
	mem.PushWriteResult(graph.Result{Records: []graph.Record{
		{"n": map[string]any{"nom": "Cafe 001", "prix": int64(12), "quantite_stock": int64(40)}},
	}})

	stored, err := repo.CreateNode(context.Background(), domain.LabelProduit, props)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stored["nom"] != "Cafe 001" {
		t.Errorf("unexpected stored props: %v", stored)
	}

	calls := mem.WriteCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 write query, got %d", len(calls))
	}
	if calls[0].Query != "CREATE (n:Produit) SET n = $props RETURN n" {
		t.Errorf("unexpected query: %s", calls[0].Query)
	}
	sent, ok := calls[0].Params["props"].(map[string]any)
	if !ok || sent["nom"] != "Cafe 001" {
		t.Errorf("unexpected props param: %v", calls[0].Params["props"])
	}
}

func TestRepository_CreateNode_NoRecordIsError(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	if _, err := repo.CreateNode(context.Background(), domain.LabelProduit, domain.Properties{"nom": "x"}); err == nil {
		t.Fatal("expected error when create returns no node")
	}
}

func TestRepository_NameTakenByOther(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{"n": map[string]any{"nom": "foo"}},
	}})

	taken, err := repo.NameTakenByOther(context.Background(), domain.LabelProduit, "foo", "bar")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !taken {
		t.Fatal("expected name to be reported taken")
	}

	calls := mem.ReadCalls()
	if calls[0].Query != "MATCH (n:Produit) WHERE n.nom = $nom AND n.nom <> $id RETURN n" {
		t.Errorf("unexpected query: %s", calls[0].Query)
	}
	if calls[0].Params["nom"] != "foo" || calls[0].Params["id"] != "bar" {
		t.Errorf("unexpected params: %v", calls[0].Params)
	}
}

func TestRepository_UpdateNode(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{
		{"n": map[string]any{"nom": "bar", "prix": int64(20), "quantite_stock": int64(5)}},
	}})

	stored, err := repo.UpdateNode(context.Background(), domain.LabelProduit, "foo", domain.Properties{
		"nom": "bar", "prix": 20, "quantite_stock": 5,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stored["nom"] != "bar" {
		t.Errorf("unexpected stored props: %v", stored)
	}

	calls := mem.WriteCalls()
	if calls[0].Query != "MATCH (n:Produit) WHERE n.nom = $id SET n = $props RETURN n" {
		t.Errorf("unexpected query: %s", calls[0].Query)
	}
	if calls[0].Params["id"] != "foo" {
		t.Errorf("update must match on the original identity, got params %v", calls[0].Params)
	}
}

func TestRepository_DeleteNode(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushWriteResult(graph.Result{Records: []graph.Record{{"deleted": int64(1)}}})

	deleted, err := repo.DeleteNode(context.Background(), domain.LabelFournisseur, "Acme")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !deleted {
		t.Fatal("expected delete confirmation")
	}

	calls := mem.WriteCalls()
	if calls[0].Query != "MATCH (n:Fournisseur) WHERE n.nom = $id DETACH DELETE n RETURN 1 as deleted" {
		t.Errorf("unexpected query: %s", calls[0].Query)
	}
}

func TestRepository_DeleteNode_NoEffect(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	deleted, err := repo.DeleteNode(context.Background(), domain.LabelFournisseur, "Acme")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted {
		t.Fatal("expected no delete confirmation when the store yields no records")
	}
}

func TestRepository_NodeRelations(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"n": map[string]any{"nom": "Acme"},
			"r": "FOURNIT",
			"m": map[string]any{"nom": "Cafe 001"},
		},
		{
			"n": map[string]any{"nom": "Acme"},
			"r": "FOURNIT",
			"m": map[string]any{"nom": "The 002"},
		},
	}})

	rels, err := repo.NodeRelations(context.Background(), domain.LabelFournisseur, "Acme")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rels) != 2 {
		t.Fatalf("expected one entry per edge, got %d", len(rels))
	}
	if rels[0].Type != "FOURNIT" || rels[0].Connected["nom"] != "Cafe 001" {
		t.Errorf("unexpected relation: %+v", rels[0])
	}

	calls := mem.ReadCalls()
	if calls[0].Query != "MATCH (n:Fournisseur)-[r]-(m) WHERE n.nom = $id RETURN n, r, m" {
		t.Errorf("unexpected query: %s", calls[0].Query)
	}
}

func TestRepository_AllEdges(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	mem.PushReadResult(graph.Result{Records: []graph.Record{
		{
			"n": map[string]any{"nom": "Acme"},
			"r": "FOURNIT",
			"m": map[string]any{"nom": "Cafe 001"},
		},
	}})

	edges, err := repo.AllEdges(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].Type != "FOURNIT" || edges[0].Start["nom"] != "Acme" {
		t.Errorf("unexpected edge: %+v", edges[0])
	}

	calls := mem.ReadCalls()
	if calls[0].Query != "MATCH (n)-[r]->(m) RETURN n, r, m" {
		t.Errorf("unexpected query: %s", calls[0].Query)
	}
}

func TestRepository_RelateNodes(t *testing.T) {
	mem := graph.NewMemoryClient()
	repo := New(mem)

	err := repo.RelateNodes(context.Background(), domain.LabelFournisseur, "Acme", "FOURNIT", domain.LabelProduit, "Cafe 001")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	calls := mem.WriteCalls()
	want := "MATCH (a:Fournisseur) WHERE a.nom = $from MATCH (b:Produit) WHERE b.nom = $to MERGE (a)-[r:FOURNIT]->(b) RETURN type(r) as relation"
	if calls[0].Query != want {
		t.Errorf("unexpected query: %s", calls[0].Query)
	}
	if calls[0].Params["from"] != "Acme" || calls[0].Params["to"] != "Cafe 001" {
		t.Errorf("unexpected params: %v", calls[0].Params)
	}
}

func TestRepository_StoreFaultPropagates(t *testing.T) {
	boom := errors.New("bolt connection refused")
	mem := graph.NewMemoryClient().WithError(boom)
	repo := New(mem)

	if _, err := repo.ListByLabel(context.Background(), domain.LabelProduit); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store fault, got %v", err)
	}
	if _, _, err := repo.FindByName(context.Background(), domain.LabelProduit, "x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store fault, got %v", err)
	}
	if _, err := repo.DeleteNode(context.Background(), domain.LabelFournisseur, "x"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store fault, got %v", err)
	}
}
