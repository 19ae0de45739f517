package naming

// Request holds the naming schemes for the requested binding targets.
// At least one of the two must be present.
type Request struct {
	// Driver is the scheme for driver-style wrappers, nil when driver
	// bindings were not requested.
	Driver *Scheme
	// Datastore is the scheme for datastore-style wrappers, nil when
	// datastore bindings were not requested.
	Datastore *Scheme
}

// ParseRequest builds a Request from the configuration spellings.
// Empty strings mean the target was not requested.
func ParseRequest(driver, datastore string) (*Request, error) {
	req := &Request{}

	if driver != "" {
		s, err := Parse(driver)
		if err != nil {
			return nil, err
		}
		req.Driver = s
	}
	if datastore != "" {
		s, err := Parse(datastore)
		if err != nil {
			return nil, err
		}
		req.Datastore = s
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

// Validate checks the request: at least one target present, each
// present scheme well-formed, and, when both targets are requested,
// the schemes not structurally equal. Two structurally equal schemes
// would generate two bindings with the same symbol in a shared scope
// for every function.
func (r *Request) Validate() error {
	if r.Driver == nil && r.Datastore == nil {
		return &NoTargetError{}
	}

	if r.Driver != nil {
		if err := r.Driver.validate(); err != nil {
			return err
		}
	}
	if r.Datastore != nil {
		if err := r.Datastore.validate(); err != nil {
			return err
		}
	}

	if r.Driver != nil && r.Driver.Equal(r.Datastore) {
		return &ConflictError{Scheme: r.Driver.String()}
	}
	return nil
}
