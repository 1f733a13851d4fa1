package parse

import "sort"

// EntityKind selects the shape fingerprint used by the structural
// fallback when locating a payload list.
type EntityKind string

const (
	KindLeague       EntityKind = "league"
	KindPlayer       EntityKind = "player"
	KindMarketPlayer EntityKind = "market_player"
	KindUser         EntityKind = "user"
)

// Payload location, in priority order. Full-word keys first, then the
// abbreviated keys the API actually uses on most endpoints.
var (
	knownListKeys       = []string{"leagues", "players", "data", "squad", "market", "transfers", "items", "list"}
	abbreviatedListKeys = []string{"it", "anol", "us"}
	entityIdentityKeys  = []string{"id", "name", "i", "n"}
)

// shapeFingerprints maps an entity kind to keys whose presence in a
// list element marks the list as that kind's payload.
var shapeFingerprints = map[EntityKind][]string{
	KindLeague:       {"creator", "creatorName", "season", "cpi", "adm"},
	KindPlayer:       {"firstName", "lastName", "fn", "ln", "position", "p"},
	KindMarketPlayer: {"firstName", "lastName", "fn", "ln", "position", "p", "price", "seller", "prc"},
	KindUser:         {"placement", "pl", "teamName", "tn", "budget", "b"},
}

// Records locates the substantive payload list inside a decoded
// response of unknown shape. Resolution order: known full-word keys,
// known abbreviated keys, the root itself when it is entity-shaped
// (wrapped as a one-element list), then a structural scan matching the
// kind's shape fingerprint. A response holding nothing recognisable
// yields an empty list, never an error.
func Records(root map[string]any, kind EntityKind) []map[string]any {
	if len(root) == 0 {
		return []map[string]any{}
	}

	for _, k := range knownListKeys {
		if list, ok := recordList(root[k]); ok {
			return list
		}
	}
	for _, k := range abbreviatedListKeys {
		if list, ok := recordList(root[k]); ok {
			return list
		}
	}

	for _, k := range entityIdentityKeys {
		if _, ok := root[k]; ok {
			return []map[string]any{root}
		}
	}

	// Structural fallback. Map iteration order is random, so scan keys
	// sorted to keep classification deterministic.
	keys := make([]string, 0, len(root))
	for k := range root {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fingerprint := shapeFingerprints[kind]
	for _, k := range keys {
		list, ok := recordList(root[k])
		if !ok || len(list) == 0 {
			continue
		}
		if matchesFingerprint(list[0], fingerprint) {
			return list
		}
	}

	// Last resort: a single entity nested under an unknown wrapper key.
	for _, k := range keys {
		nested, ok := root[k].(map[string]any)
		if !ok {
			continue
		}
		for _, idk := range entityIdentityKeys {
			if _, ok := nested[idk]; ok {
				return []map[string]any{nested}
			}
		}
	}

	return []map[string]any{}
}

// recordList converts v into a list of maps. Non-map elements are
// skipped; a list with no map elements is not a payload.
func recordList(v any) ([]map[string]any, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	list := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		if m, ok := el.(map[string]any); ok {
			list = append(list, m)
		}
	}
	if len(list) == 0 {
		return nil, false
	}
	return list, true
}

func matchesFingerprint(record map[string]any, fingerprint []string) bool {
	for _, k := range fingerprint {
		if _, ok := record[k]; ok {
			return true
		}
	}
	return false
}
