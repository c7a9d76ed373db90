package ruleset

// Allegiance is the moral faction a character fights for.
//
// Precondition: ID and Name must be non-empty after loading.
type Allegiance struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
}

// LoadAllegiances reads all .yaml files in dir and parses each as an Allegiance.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed allegiances (may be empty slice) or a non-nil error.
func LoadAllegiances(dir string) ([]*Allegiance, error) {
	return loadDir[Allegiance](dir, "allegiance")
}

// Modifier is a named perk a character can carry into a match.
type Modifier struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Order       int    `yaml:"order"`
}

// LoadModifiers reads all .yaml files in dir and parses each as a Modifier.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed modifiers (may be empty slice) or a non-nil error.
func LoadModifiers(dir string) ([]*Modifier, error) {
	return loadDir[Modifier](dir, "modifier")
}
