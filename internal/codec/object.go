package codec

// Serializable is implemented by caller types that can be stored as a value.
type Serializable interface {
	// JSONValue returns the value to store.
	JSONValue() (string, error)
	// KeyValue returns the key the object is stored under.
	KeyValue() string
}

// Object is the constraint for hydrating a stored value into a *T.
//
//	type Person struct{ ID, Name string }
//	func (p *Person) InitWithJSON(s string) error { return json.Unmarshal([]byte(s), p) }
//	func (p *Person) JSONValue() (string, error)  { ... }
//	func (p *Person) KeyValue() string            { return p.ID }
type Object[T any] interface {
	*T
	Serializable
	InitWithJSON(json string) error
}

// Decode hydrates a new T from value.
func Decode[T any, P Object[T]](value string) (*T, error) {
	obj := P(new(T))
	if err := obj.InitWithJSON(value); err != nil {
		return nil, err
	}
	return (*T)(obj), nil
}
