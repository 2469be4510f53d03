package orchestration

import "github.com/agbru/picalc/internal/montecarlo"

// MethodAll selects every registered method.
const MethodAll = "all"

// GetMethodsToRun resolves a method name against factory. "all" returns every
// registered method in sorted name order; an unknown name returns nil.
func GetMethodsToRun(name string, factory *montecarlo.MethodFactory) []montecarlo.Method {
	if name == MethodAll {
		keys := factory.List()
		methods := make([]montecarlo.Method, 0, len(keys))
		for _, k := range keys {
			if m, err := factory.Get(k); err == nil {
				methods = append(methods, m)
			}
		}
		return methods
	}
	if m, err := factory.Get(name); err == nil {
		return []montecarlo.Method{m}
	}
	return nil
}
