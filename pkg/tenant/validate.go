package tenant

// MaxIDLength bounds identifiers accepted by registries to keep storage keys small.
const MaxIDLength = 128

func validateID(id string) error {
	if id == "" || len(id) > MaxIDLength {
		return ErrInvalidIdentifier
	}
	return nil
}
