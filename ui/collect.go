package ui

import "net/url"

// Collect returns the effective property values of every element with an ID
// reachable from root.
//
// Values already in st take precedence over the static tree. A children value
// in st replaces the static children of its element, so elements that only
// exist in dynamic content are collected too. Location elements expose
// pathname, search and hash taken from loc.
func Collect(root *Node, st State, loc *url.URL) State {
	out := st.Clone()
	var visit func(v any)
	visit = func(v any) {
		switch v := v.(type) {
		case []*Node:
			for _, c := range v {
				visit(c)
			}
		case *Node:
			if v == nil {
				return
			}
			if v.ID != "" {
				for k, pv := range v.Props {
					setDefault(out, Prop{ID: v.ID, Property: k}, pv)
				}
				if v.Kind == KindLocation {
					for k, pv := range locationProps(loc) {
						setDefault(out, Prop{ID: v.ID, Property: k}, pv)
					}
				}
				if dyn, ok := st[Prop{ID: v.ID, Property: "children"}]; ok {
					visit(dyn)
					return
				}
			}
			visit(v.Children)
		}
	}
	visit(root)
	return out
}

func setDefault(s State, p Prop, v any) {
	if _, ok := s[p]; !ok {
		s[p] = v
	}
}

func locationProps(loc *url.URL) map[string]any {
	if loc == nil {
		return map[string]any{"pathname": "/", "search": "", "hash": ""}
	}
	props := map[string]any{"pathname": loc.Path, "search": "", "hash": ""}
	if loc.RawQuery != "" {
		props["search"] = "?" + loc.RawQuery
	}
	if loc.Fragment != "" {
		props["hash"] = "#" + loc.Fragment
	}
	return props
}
