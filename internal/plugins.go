package internal

// Plugin chain generation. A chain merges, in fixed precedence order, the
// global phase list, the controller-scoped list (matched by resolved
// object name or by raw requested name) and the action-scoped list nested
// under the controller entry. Concatenation order is execution order;
// duplicates run twice. An entry starting with "-" removes every earlier
// occurrence of that plugin instead of adding one.

type phase int

const (
	phasePre phase = iota
	phasePost
)

// PluginsConfig is the plugin table: global phase lists plus per
// controller overrides.
type PluginsConfig struct {
	Controllers map[string]ControllerPlugins `yaml:",inline"`
	Pre         []string                     `yaml:"_pre"`
	Post        []string                     `yaml:"_post"`
}

// ControllerPlugins scopes plugin lists to one controller, with optional
// per-action nesting.
type ControllerPlugins struct {
	Actions map[string]PhasePlugins `yaml:",inline"`
	Pre     []string                `yaml:"_pre"`
	Post    []string                `yaml:"_post"`
}

// PhasePlugins holds the two phase lists of an action scope.
type PhasePlugins struct {
	Pre  []string `yaml:"_pre"`
	Post []string `yaml:"_post"`
}

// chain builds the plugin execution list for one phase. objectName is the
// resolved controller name, requestedName the raw name from the URL;
// controller scope matches either.
func (p *PluginsConfig) chain(ph phase, objectName, requestedName, action string) []string {
	if p == nil {
		return nil
	}
	lists := [][]string{p.phaseList(ph)}

	ctrl, ok := p.Controllers[objectName]
	if !ok && requestedName != objectName {
		ctrl, ok = p.Controllers[requestedName]
	}
	if ok {
		lists = append(lists, ctrl.phaseList(ph))
		if ap, ok := ctrl.Actions[action]; ok {
			lists = append(lists, ap.phaseList(ph))
		}
	}
	return mergePluginLists(lists...)
}

func (p *PluginsConfig) phaseList(ph phase) []string {
	if ph == phasePre {
		return p.Pre
	}
	return p.Post
}

func (c ControllerPlugins) phaseList(ph phase) []string {
	if ph == phasePre {
		return c.Pre
	}
	return c.Post
}

func (a PhasePlugins) phaseList(ph phase) []string {
	if ph == phasePre {
		return a.Pre
	}
	return a.Post
}

// mergePluginLists concatenates the lists, applying "-name" negations
// against everything accumulated so far. Duplicates are preserved.
func mergePluginLists(lists ...[]string) []string {
	var out []string
	for _, list := range lists {
		for _, name := range list {
			if len(name) > 1 && name[0] == '-' {
				out = removeAll(out, name[1:])
				continue
			}
			out = append(out, name)
		}
	}
	return out
}

func removeAll(list []string, name string) []string {
	kept := list[:0]
	for _, n := range list {
		if n != name {
			kept = append(kept, n)
		}
	}
	return kept
}
