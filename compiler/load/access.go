package load

import (
	"fmt"
	"strings"

	"github.com/syssam/loom"
	"github.com/syssam/loom/privacy"
)

// Access is the YAML form of model access. Each operation lists rules
// evaluated in order:
//
//	allow           allow the request
//	deny            deny the request
//	viewer          deny when no viewer is in the context
//	role:<a>,<b>    allow viewers with any of the roles
//	owner:<field>   allow when the item's field holds the viewer id
//
// Filters take a single owner:<field> entry.
type Access struct {
	Operation map[loom.Operation][]string `yaml:"operation"`
	Item      map[loom.Operation][]string `yaml:"item"`
	Filter    map[loom.Operation]string   `yaml:"filter"`
}

// FieldAccess is the YAML form of field access.
type FieldAccess struct {
	Read   []string `yaml:"read"`
	Create []string `yaml:"create"`
	Update []string `yaml:"update"`
}

func (a Access) model(path string) (privacy.ModelAccess, error) {
	var (
		out privacy.ModelAccess
		err error
	)
	if out.Operation, err = policies(path+".access.operation", a.Operation); err != nil {
		return out, err
	}
	if out.Item, err = policies(path+".access.item", a.Item); err != nil {
		return out, err
	}
	for op, spec := range a.Filter {
		field, ok := strings.CutPrefix(spec, "owner:")
		if !ok || field == "" {
			return out, loom.NewConfigurationError(path+".access.filter", "unknown filter %q for %s", spec, op)
		}
		if out.Filter == nil {
			out.Filter = make(map[loom.Operation]privacy.FilterFunc)
		}
		out.Filter[op] = privacy.OwnerFilter(field)
	}
	return out, nil
}

func (a *FieldAccess) field(path string) (privacy.FieldAccess, error) {
	var out privacy.FieldAccess
	if a == nil {
		return out, nil
	}
	var err error
	if out.Read, err = policy(path+".access.read", a.Read); err != nil {
		return out, err
	}
	if out.Create, err = policy(path+".access.create", a.Create); err != nil {
		return out, err
	}
	if out.Update, err = policy(path+".access.update", a.Update); err != nil {
		return out, err
	}
	return out, nil
}

func policies(path string, in map[loom.Operation][]string) (map[loom.Operation]privacy.Policy, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[loom.Operation]privacy.Policy, len(in))
	for op, rules := range in {
		p, err := policy(path+"."+string(op), rules)
		if err != nil {
			return nil, err
		}
		out[op] = p
	}
	return out, nil
}

func policy(path string, rules []string) (privacy.Policy, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	p := make(privacy.Policy, 0, len(rules))
	for _, spec := range rules {
		r, err := rule(spec)
		if err != nil {
			return nil, loom.WrapConfigurationError(path, err, "invalid rule")
		}
		p = append(p, r)
	}
	return p, nil
}

func rule(spec string) (privacy.Rule, error) {
	name, arg, _ := strings.Cut(spec, ":")
	switch name {
	case "allow":
		return privacy.AlwaysAllowRule(), nil
	case "deny":
		return privacy.AlwaysDenyRule(), nil
	case "viewer":
		return privacy.DenyIfNoViewer(), nil
	case "role":
		if arg == "" {
			break
		}
		return privacy.HasAnyRole(strings.Split(arg, ",")...), nil
	case "owner":
		if arg == "" {
			break
		}
		return privacy.IsOwner(arg), nil
	}
	return nil, fmt.Errorf("unknown rule %q", spec)
}
