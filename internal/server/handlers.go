package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/adupont/stockgraph/backend/internal/domain"
)

// Store is the persistence contract the handlers depend on. Implemented by
// *repository.Repository.
type Store interface {
	ListByLabel(ctx context.Context, label string) ([]domain.Properties, error)
	FindByName(ctx context.Context, label, name string) (domain.Properties, bool, error)
	CreateNode(ctx context.Context, label string, props domain.Properties) (domain.Properties, error)
	NameTakenByOther(ctx context.Context, label, candidate, current string) (bool, error)
	UpdateNode(ctx context.Context, label, current string, props domain.Properties) (domain.Properties, error)
	DeleteNode(ctx context.Context, label, name string) (bool, error)
	NodeRelations(ctx context.Context, label, name string) ([]domain.Relation, error)
	AllEdges(ctx context.Context) ([]domain.Edge, error)
}

var validate = validator.New()

// resource parameterizes the CRUD handlers for one node label: which label
// the queries target, the JSON key wrapping node properties, the localized
// message surface, and how to decode a write body into properties.
type resource struct {
	label          string
	key            string
	requiredMsg    string
	notFoundMsg    string
	existsMsg      string
	otherExistsMsg string
	createdMsg     string
	updatedMsg     string
	decode         func(*http.Request) (string, domain.Properties, error)
}

// APIHandlers exposes the HTTP handlers of the REST API.
type APIHandlers struct {
	logger *slog.Logger
	store  Store

	entrepot    resource
	produit     resource
	fournisseur resource
}

// NewAPIHandlers constructs the handler set with its three resource
// descriptors.
func NewAPIHandlers(logger *slog.Logger, store Store) *APIHandlers {
	return &APIHandlers{
		logger: logger,
		store:  store,
		entrepot: resource{
			label:       domain.LabelEntrepot,
			key:         "entrepot",
			notFoundMsg: "Entrepôt non trouvé",
		},
		produit: resource{
			label:          domain.LabelProduit,
			key:            "produit",
			requiredMsg:    "Les champs nom, prix et quantite_stock sont requis",
			notFoundMsg:    "Produit non trouvé",
			existsMsg:      "Un produit avec ce nom existe déjà",
			otherExistsMsg: "Un autre produit avec ce nom existe déjà",
			createdMsg:     "Produit créé avec succès",
			updatedMsg:     "Produit mis à jour avec succès",
			decode:         decodeStockPayload,
		},
		fournisseur: resource{
			label:          domain.LabelFournisseur,
			key:            "fournisseur",
			requiredMsg:    "Les champs nom, ville et contact sont requis",
			notFoundMsg:    "Fournisseur non trouvé",
			existsMsg:      "Un fournisseur avec ce nom existe déjà",
			otherExistsMsg: "Un autre fournisseur avec ce nom existe déjà",
			createdMsg:     "Fournisseur créé avec succès",
			updatedMsg:     "Fournisseur mis à jour avec succès",
			decode:         decodeFournisseurPayload,
		},
	}
}

func (h *APIHandlers) handleWelcome(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the Neo4j API server",
	})
}

// list returns every node of the resource's label as an array of
// {<key>: properties} entries, in store order.
func (h *APIHandlers) list(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.store.ListByLabel(r.Context(), res.label)
		if err != nil {
			h.logger.Error("failed to list nodes", "label", res.label, "error", err)
			// Historical plain-text body on this one path.
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		payload := make([]map[string]domain.Properties, 0, len(items))
		for _, props := range items {
			payload = append(payload, map[string]domain.Properties{res.key: props})
		}
		respondJSON(w, http.StatusOK, payload)
	}
}

func (h *APIHandlers) get(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nom := chi.URLParam(r, "nom")

		props, found, err := h.store.FindByName(r.Context(), res.label, nom)
		if err != nil {
			h.logger.Error("failed to fetch node", "label", res.label, "nom", nom, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if !found {
			writeError(w, http.StatusNotFound, res.notFoundMsg)
			return
		}

		respondJSON(w, http.StatusOK, map[string]domain.Properties{res.key: props})
	}
}

// create applies the required-fields check, then the existence check, then
// the write. Each step's error takes precedence over later steps.
func (h *APIHandlers) create(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nom, props, err := res.decode(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, res.requiredMsg)
			return
		}

		_, exists, err := h.store.FindByName(r.Context(), res.label, nom)
		if err != nil {
			h.logger.Error("failed to check existing node", "label", res.label, "nom", nom, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if exists {
			writeError(w, http.StatusConflict, res.existsMsg)
			return
		}

		stored, err := h.store.CreateNode(r.Context(), res.label, props)
		if err != nil {
			h.logger.Error("failed to create node", "label", res.label, "nom", nom, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"message": res.createdMsg,
			res.key:   stored,
		})
	}
}

// update is a full replace of all properties, including nom. Validation,
// existence, collision, write — in that order.
func (h *APIHandlers) update(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := chi.URLParam(r, "nom")

		nom, props, err := res.decode(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, res.requiredMsg)
			return
		}

		_, exists, err := h.store.FindByName(r.Context(), res.label, current)
		if err != nil {
			h.logger.Error("failed to check existing node", "label", res.label, "nom", current, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if !exists {
			writeError(w, http.StatusNotFound, res.notFoundMsg)
			return
		}

		taken, err := h.store.NameTakenByOther(r.Context(), res.label, nom, current)
		if err != nil {
			h.logger.Error("failed to check name collision", "label", res.label, "nom", nom, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if taken {
			writeError(w, http.StatusConflict, res.otherExistsMsg)
			return
		}

		stored, err := h.store.UpdateNode(r.Context(), res.label, current, props)
		if err != nil {
			h.logger.Error("failed to update node", "label", res.label, "nom", current, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"message": res.updatedMsg,
			res.key:   stored,
		})
	}
}

// remove detach-deletes the node after an existence check. A deletion that
// yields no effect is a 500, distinct from the 404.
func (h *APIHandlers) remove(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nom := chi.URLParam(r, "nom")

		_, exists, err := h.store.FindByName(r.Context(), res.label, nom)
		if err != nil {
			h.logger.Error("failed to check existing node", "label", res.label, "nom", nom, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if !exists {
			writeError(w, http.StatusNotFound, res.notFoundMsg)
			return
		}

		deleted, err := h.store.DeleteNode(r.Context(), res.label, nom)
		if err != nil {
			h.logger.Error("failed to delete node", "label", res.label, "nom", nom, "error", err)
			respondJSON(w, http.StatusInternalServerError, map[string]string{
				"error":   "Internal Server Error",
				"details": err.Error(),
			})
			return
		}
		if !deleted {
			writeError(w, http.StatusInternalServerError, "Erreur lors de la suppression")
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{
			"message":              "Fournisseur supprimé avec succès",
			"fournisseur_supprime": nom,
		})
	}
}

type relationEntry struct {
	Fournisseur domain.Properties `json:"fournisseur"`
	Relation    string            `json:"relation"`
	ConnecteA   domain.Properties `json:"connecte_a"`
}

// relations lists every edge incident to the node, one entry per edge. A
// missing node is a 404, not an empty list.
func (h *APIHandlers) relations(res resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nom := chi.URLParam(r, "nom")

		_, exists, err := h.store.FindByName(r.Context(), res.label, nom)
		if err != nil {
			h.logger.Error("failed to check existing node", "label", res.label, "nom", nom, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if !exists {
			writeError(w, http.StatusNotFound, res.notFoundMsg)
			return
		}

		rels, err := h.store.NodeRelations(r.Context(), res.label, nom)
		if err != nil {
			h.logger.Error("failed to fetch relations", "label", res.label, "nom", nom, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		entries := make([]relationEntry, 0, len(rels))
		for _, rel := range rels {
			entries = append(entries, relationEntry{
				Fournisseur: rel.Node,
				Relation:    rel.Type,
				ConnecteA:   rel.Connected,
			})
		}
		respondJSON(w, http.StatusOK, map[string][]relationEntry{"relations": entries})
	}
}

type edgeEntry struct {
	N domain.Properties `json:"n"`
	M domain.Properties `json:"m"`
	R string            `json:"r"`
}

// handleGraph returns the store-wide directed edge scan used for
// visualization.
func (h *APIHandlers) handleGraph(w http.ResponseWriter, r *http.Request) {
	edges, err := h.store.AllEdges(r.Context())
	if err != nil {
		h.logger.Error("failed to scan graph", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	payload := make([]edgeEntry, 0, len(edges))
	for _, edge := range edges {
		payload = append(payload, edgeEntry{N: edge.Start, M: edge.End, R: edge.Type})
	}
	respondJSON(w, http.StatusOK, payload)
}

// --- Request payloads ---

// stockPayload covers Produit writes. prix rejects zero, quantite_stock is a
// pointer so a present zero passes the required check.
type stockPayload struct {
	Nom           string `json:"nom" validate:"required"`
	Prix          int    `json:"prix" validate:"required"`
	QuantiteStock *int   `json:"quantite_stock" validate:"required"`
}

type fournisseurPayload struct {
	Nom     string `json:"nom" validate:"required"`
	Ville   string `json:"ville" validate:"required"`
	Contact string `json:"contact" validate:"required"`
}

func decodeStockPayload(r *http.Request) (string, domain.Properties, error) {
	var payload stockPayload
	if err := decodeJSON(r, &payload); err != nil {
		return "", nil, err
	}
	if err := validate.Struct(payload); err != nil {
		return "", nil, err
	}
	return payload.Nom, domain.Properties{
		"nom":            payload.Nom,
		"prix":           payload.Prix,
		"quantite_stock": *payload.QuantiteStock,
	}, nil
}

func decodeFournisseurPayload(r *http.Request) (string, domain.Properties, error) {
	var payload fournisseurPayload
	if err := decodeJSON(r, &payload); err != nil {
		return "", nil, err
	}
	if err := validate.Struct(payload); err != nil {
		return "", nil, err
	}
	return payload.Nom, domain.Properties{
		"nom":     payload.Nom,
		"ville":   payload.Ville,
		"contact": payload.Contact,
	}, nil
}

// --- Helpers ---

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
