package tenant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pages a profile can be granted access to
const (
	PageDashboard     = "dashboard"
	PageAppointments  = "citas"
	PageClients       = "clientes"
	PageServices      = "servicios"
	PageProfessionals = "profesionales"
	PageInventory     = "inventario"
	PageAttentions    = "boletas"
	PageReports       = "reportes"
	PageProfiles      = "perfiles"
	PageCommissions   = "comisiones"
)

// Actions within a page
const (
	ActionView   = "Ver"
	ActionCreate = "Agregar"
	ActionEdit   = "Editar"
	ActionDelete = "Eliminar"
)

// AllActions is what a bare page grant expands to
var AllActions = []string{ActionView, ActionCreate, ActionEdit, ActionDelete}

// Permission grants a set of actions on one page
type Permission struct {
	Page    string   `json:"page"`
	Actions []string `json:"actions"`
}

// Allows reports whether action is granted. Action names compare case-insensitively.
func (p Permission) Allows(action string) bool {
	for _, a := range p.Actions {
		if strings.EqualFold(a, action) {
			return true
		}
	}
	return false
}

// NormalizePermissions converts whatever shape was stored for a profile into []Permission.
// Accepted inputs: a JSON document ([]byte, json.RawMessage or string holding JSON), a
// []any as produced by encoding/json, a []string of page ids, or []Permission. A bare page
// id grants every action on that page. Entries for the same page are merged.
func NormalizePermissions(raw any) ([]Permission, error) {
	var items []any
	switch v := raw.(type) {
	case nil:
		return []Permission{}, nil
	case []Permission:
		return mergePermissions(v), nil
	case []string:
		for _, s := range v {
			items = append(items, s)
		}
	case []any:
		items = v
	case json.RawMessage:
		return NormalizePermissions([]byte(v))
	case []byte:
		if len(strings.TrimSpace(string(v))) == 0 {
			return []Permission{}, nil
		}
		if err := json.Unmarshal(v, &items); err != nil {
			return nil, fmt.Errorf("permissions: %w", err)
		}
	case string:
		if strings.HasPrefix(strings.TrimSpace(v), "[") {
			return NormalizePermissions([]byte(v))
		}
		items = []any{v}
	default:
		return nil, fmt.Errorf("permissions: unsupported type %T", raw)
	}

	perms := make([]Permission, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			if page := strings.TrimSpace(it); page != "" {
				perms = append(perms, Permission{Page: page, Actions: append([]string(nil), AllActions...)})
			}
		case map[string]any:
			page, _ := it["page"].(string)
			page = strings.TrimSpace(page)
			if page == "" {
				return nil, fmt.Errorf("permissions: entry without page")
			}
			p := Permission{Page: page}
			switch acts := it["actions"].(type) {
			case []any:
				for _, a := range acts {
					s, ok := a.(string)
					if !ok {
						return nil, fmt.Errorf("permissions: action on %q is not a string", page)
					}
					p.Actions = append(p.Actions, s)
				}
			case []string:
				p.Actions = append(p.Actions, acts...)
			case nil:
			default:
				return nil, fmt.Errorf("permissions: actions on %q must be a list", page)
			}
			perms = append(perms, p)
		case Permission:
			perms = append(perms, it)
		default:
			return nil, fmt.Errorf("permissions: unsupported entry %T", item)
		}
	}
	return mergePermissions(perms), nil
}

// mergePermissions folds duplicate pages together, keeping first-seen page order and
// de-duplicating actions.
func mergePermissions(in []Permission) []Permission {
	out := make([]Permission, 0, len(in))
	index := make(map[string]int)
	for _, p := range in {
		i, ok := index[p.Page]
		if !ok {
			i = len(out)
			index[p.Page] = i
			out = append(out, Permission{Page: p.Page, Actions: []string{}})
		}
		for _, a := range p.Actions {
			if !out[i].Allows(a) {
				out[i].Actions = append(out[i].Actions, a)
			}
		}
	}
	return out
}
