package mapping

import "reflect"

// RegisterInterpretation attaches a named, reversible alternate external
// form to an already-described type. A serializer configured with an
// ordered list of interpretation names (see mapping/json) picks the first
// one present here and serializes interp.Target instead of d.
func (r *Registry) RegisterInterpretation(t reflect.Type, interp Interpretation) error {
	d, err := r.Describe(t)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.Interpretations == nil {
		d.Interpretations = make(map[string]Interpretation)
	}
	d.Interpretations[interp.Name] = interp
	return nil
}

// SelectInterpretation returns the first interpretation in preferred (in
// order) that d declares, or ok=false if none match.
func (d *Descriptor) SelectInterpretation(preferred []string) (Interpretation, bool) {
	for _, name := range preferred {
		if it, ok := d.Interpretations[name]; ok {
			return it, true
		}
	}
	return Interpretation{}, false
}
