package vcf

// SampleView is the per-sample field lookup used during evaluation.
// Layers are consulted in override order: derived, sample, INFO, mandatory.
// A SampleView shares its record's containers and must not outlive it.
type SampleView struct {
	mandatory *MandatoryFields
	info      AuxiliaryFields
	sample    SampleFields
	derived   map[string]string
}

// NewSampleView builds a view from explicit layers. Any layer may be nil.
func NewSampleView(mandatory *MandatoryFields, info AuxiliaryFields, sample SampleFields) SampleView {
	return SampleView{mandatory: mandatory, info: info, sample: sample}
}

// Lookup returns the raw value stored under name.
func (v SampleView) Lookup(name string) (string, bool) {
	if val, ok := v.derived[name]; ok {
		return val, true
	}
	if val, ok := v.sample[name]; ok {
		return val, true
	}
	if val, ok := v.info[name]; ok {
		return val, true
	}
	if v.mandatory != nil {
		return v.mandatory.Get(name)
	}
	return "", false
}

// Sample returns the sample's own FORMAT fields.
func (v SampleView) Sample() SampleFields {
	return v.sample
}

// With returns a copy of v with name set in the derived layer.
// The receiver is left untouched.
func (v SampleView) With(name, value string) SampleView {
	derived := make(map[string]string, len(v.derived)+1)
	for k, val := range v.derived {
		derived[k] = val
	}
	derived[name] = value
	v.derived = derived
	return v
}

// Empty reports whether no field is visible through the view.
func (v SampleView) Empty() bool {
	return v.mandatory == nil && len(v.info) == 0 && len(v.sample) == 0 && len(v.derived) == 0
}

// Len returns the number of distinct field names visible through the view.
func (v SampleView) Len() int {
	seen := make(map[string]struct{}, len(v.sample)+len(v.info)+len(v.derived)+len(MandatoryNames))
	for k := range v.derived {
		seen[k] = struct{}{}
	}
	for k := range v.sample {
		seen[k] = struct{}{}
	}
	for k := range v.info {
		seen[k] = struct{}{}
	}
	if v.mandatory != nil {
		for _, k := range MandatoryNames {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}
