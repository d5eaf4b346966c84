package extract

// symbolTable maps declared names to node ids.
//
// Iteration follows the order in which each name was first declared.
// Declaring a name again points it at the new node without moving it.
type symbolTable struct {
	names []string
	ids   map[string]string
}

type symbol struct {
	name string
	id   string
}

func newSymbolTable() *symbolTable {
	return &symbolTable{ids: make(map[string]string)}
}

func (t *symbolTable) set(name, id string) {
	if _, ok := t.ids[name]; !ok {
		t.names = append(t.names, name)
	}
	t.ids[name] = id
}

func (t *symbolTable) lookup(name string) (string, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// entries returns a snapshot of the table in iteration order.
func (t *symbolTable) entries() []symbol {
	out := make([]symbol, len(t.names))
	for i, name := range t.names {
		out[i] = symbol{name: name, id: t.ids[name]}
	}
	return out
}
