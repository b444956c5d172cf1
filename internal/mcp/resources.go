package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anoikis-dev/rollwatch/internal/catalog"
	i18ncatalog "github.com/anoikis-dev/rollwatch/internal/platform/i18n/catalog"
	"github.com/anoikis-dev/rollwatch/internal/rolling/engine"
)

const (
	shipsResourceURI     = "rollwatch://catalog/ships"
	wormholesResourceURI = "rollwatch://catalog/wormholes"
	ledgerResourceURI    = "rollwatch://session/ledger"
)

func registerResources(server *mcp.Server, eng *engine.Engine, bundle *i18ncatalog.Bundle) {
	server.AddResource(&mcp.Resource{
		Name:        "catalog_ships",
		Title:       "Ship Catalog",
		Description: "Readable listing of known ships with cold and hot masses in Gg",
		MIMEType:    "application/json",
		URI:         shipsResourceURI,
	}, shipsResourceHandler(eng.Catalog()))

	server.AddResource(&mcp.Resource{
		Name:        "catalog_wormholes",
		Title:       "Wormhole Catalog",
		Description: "Readable listing of known wormhole types with capacities and size restrictions",
		MIMEType:    "application/json",
		URI:         wormholesResourceURI,
	}, wormholesResourceHandler(eng.Catalog()))

	server.AddResource(&mcp.Resource{
		Name:        "session_ledger",
		Title:       "Session Ledger",
		Description: "Readable ledger of the active session, one entry per committed batch or resolved action",
		MIMEType:    "application/json",
		URI:         ledgerResourceURI,
	}, ledgerResourceHandler(eng, newViewBuilder(bundle)))
}

func shipsResourceHandler(cat *catalog.Catalog) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if err := checkResourceURI(req, shipsResourceURI); err != nil {
			return nil, err
		}
		type shipRecord struct {
			Key       string  `json:"key"`
			Name      string  `json:"name"`
			ColdMass  float64 `json:"cold_mass"`
			HotMass   float64 `json:"hot_mass"`
			SizeClass int     `json:"size_class"`
		}
		ships := cat.Ships()
		records := make([]shipRecord, 0, len(ships))
		for _, ship := range ships {
			records = append(records, shipRecord{
				Key:       ship.Key,
				Name:      ship.Name,
				ColdMass:  ship.ColdMass,
				HotMass:   ship.HotMass,
				SizeClass: ship.SizeClass,
			})
		}
		return jsonResourceResult(shipsResourceURI, records)
	}
}

func wormholesResourceHandler(cat *catalog.Catalog) mcp.ResourceHandler {
	return func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if err := checkResourceURI(req, wormholesResourceURI); err != nil {
			return nil, err
		}
		type wormholeRecord struct {
			Code        string  `json:"code"`
			Capacity    float64 `json:"capacity"`
			Restriction int     `json:"restriction"`
			Description string  `json:"description,omitempty"`
		}
		wormholes := cat.Wormholes()
		records := make([]wormholeRecord, 0, len(wormholes))
		for _, wormhole := range wormholes {
			records = append(records, wormholeRecord{
				Code:        wormhole.Code,
				Capacity:    wormhole.Capacity,
				Restriction: wormhole.Restriction,
				Description: wormhole.Description,
			})
		}
		return jsonResourceResult(wormholesResourceURI, records)
	}
}

func ledgerResourceHandler(eng *engine.Engine, views viewBuilder) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if err := checkResourceURI(req, ledgerResourceURI); err != nil {
			return nil, err
		}
		entries, err := eng.QueryLedger(ctx, "")
		if err != nil {
			return nil, err
		}
		records := make([]EntryOutput, 0, len(entries))
		for _, entry := range entries {
			records = append(records, views.entry(entry))
		}
		return jsonResourceResult(ledgerResourceURI, records)
	}
}

func checkResourceURI(req *mcp.ReadResourceRequest, want string) error {
	if req == nil || req.Params == nil || req.Params.URI == "" {
		return nil
	}
	if req.Params.URI != want {
		return fmt.Errorf("invalid URI: expected %s, got %q", want, req.Params.URI)
	}
	return nil
}

func jsonResourceResult(uri string, value any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
