package domain

// Runtime is one deployed runtime version.
type Runtime struct {
	ID             int64  `db:"id" json:"id"`
	ImplName       string `db:"impl_name" json:"impl_name"`
	ImplVersion    int    `db:"impl_version" json:"impl_version"`
	SpecName       string `db:"spec_name" json:"spec_name"`
	SpecVersion    int    `db:"spec_version" json:"spec_version"`
	CountModules   int    `db:"count_modules" json:"count_modules"`
	CountCalls     int    `db:"count_call_functions" json:"count_call_functions"`
	CountEvents    int    `db:"count_events" json:"count_events"`
	CountStorage   int    `db:"count_storage_functions" json:"count_storage_functions"`
	CountConstants int    `db:"count_constants" json:"count_constants"`
}

// RuntimeModule is one pallet registered under a spec version.
type RuntimeModule struct {
	ID          int64  `db:"id" json:"id"`
	SpecVersion int    `db:"spec_version" json:"spec_version"`
	ModuleID    string `db:"module_id" json:"module_id"`
	Name        string `db:"name" json:"name"`
	Lookup      string `db:"lookup" json:"lookup"`
	Prefix      string `db:"prefix" json:"prefix"`
}

// RuntimeCall is one dispatchable call defined under a spec version.
type RuntimeCall struct {
	ID            int64  `db:"id" json:"id"`
	SpecVersion   int    `db:"spec_version" json:"spec_version"`
	ModuleID      string `db:"module_id" json:"module_id"`
	CallID        string `db:"call_id" json:"call_id"`
	Name          string `db:"name" json:"name"`
	Lookup        string `db:"lookup" json:"lookup"`
	Documentation string `db:"documentation" json:"documentation"`
	CountParams   int    `db:"count_params" json:"count_params"`
}

// RuntimeCallParam is one declared parameter of a runtime call.
type RuntimeCallParam struct {
	ID            int64  `db:"id" json:"id"`
	RuntimeCallID int64  `db:"runtime_call_id" json:"runtime_call_id"`
	Name          string `db:"name" json:"name"`
	Type          string `db:"type" json:"type"`
}

// RuntimeEvent is one event kind defined under a spec version.
type RuntimeEvent struct {
	ID              int64  `db:"id" json:"id"`
	SpecVersion     int    `db:"spec_version" json:"spec_version"`
	ModuleID        string `db:"module_id" json:"module_id"`
	EventID         string `db:"event_id" json:"event_id"`
	Name            string `db:"name" json:"name"`
	Lookup          string `db:"lookup" json:"lookup"`
	Documentation   string `db:"documentation" json:"documentation"`
	CountAttributes int    `db:"count_attributes" json:"count_attributes"`
}

// RuntimeEventAttribute is one declared attribute of a runtime event.
type RuntimeEventAttribute struct {
	ID             int64  `db:"id" json:"id"`
	RuntimeEventID int64  `db:"runtime_event_id" json:"runtime_event_id"`
	Index          int    `db:"index" json:"index"`
	Type           string `db:"type" json:"type"`
}

// RuntimeType is one registered codec type under a spec version.
type RuntimeType struct {
	ID          int64  `db:"id" json:"id"`
	SpecVersion int    `db:"spec_version" json:"spec_version"`
	TypeString  string `db:"type_string" json:"type_string"`
	DecoderName string `db:"decoder_class" json:"decoder_class"`
	IsPrimitive bool   `db:"is_primitive_runtime" json:"is_primitive_runtime"`
}

// RuntimeStorage is one storage function defined under a spec version.
type RuntimeStorage struct {
	ID          int64  `db:"id" json:"id"`
	SpecVersion int    `db:"spec_version" json:"spec_version"`
	ModuleID    string `db:"module_id" json:"module_id"`
	Name        string `db:"name" json:"name"`
	TypeValue   string `db:"type_value" json:"type_value"`
	TypeHasher  string `db:"type_hasher" json:"type_hasher"`
}

// RuntimeConstant is one module constant defined under a spec version.
type RuntimeConstant struct {
	ID          int64  `db:"id" json:"id"`
	SpecVersion int    `db:"spec_version" json:"spec_version"`
	ModuleID    string `db:"module_id" json:"module_id"`
	Name        string `db:"name" json:"name"`
	Type        string `db:"type" json:"type"`
	Value       string `db:"value" json:"value"`
}

// RuntimeErrorMessage is one declared module error under a spec version.
type RuntimeErrorMessage struct {
	ID            int64  `db:"id" json:"id"`
	SpecVersion   int    `db:"spec_version" json:"spec_version"`
	ModuleID      string `db:"module_id" json:"module_id"`
	ModuleIndex   int    `db:"module_index" json:"module_index"`
	Index         int    `db:"index" json:"index"`
	Name          string `db:"name" json:"name"`
	Documentation string `db:"documentation" json:"documentation"`
}
