package diag

import "fmt"

// Kind classifies a Violation. All kinds abort the compilation.
type Kind int

const (
	// KindSchemaViolation is a field value that fails its declared type or constraint.
	KindSchemaViolation Kind = iota + 1
	// KindUnknownConstruct is an unrecognised block or field, or a duplicated singleton block.
	KindUnknownConstruct
	// KindCircularDependency is a cycle among passes or among entity dependencies.
	KindCircularDependency
	// KindTransformError is a transformer whose own precondition failed.
	KindTransformError
	// KindDuplicateIdentifier is two entities sharing an identifier within one section.
	KindDuplicateIdentifier
	// KindUndefinedReference is a name that does not resolve to an entity.
	KindUndefinedReference
	// KindStructuralConstraint is a shape-tag mismatch or an inconsistent required list.
	KindStructuralConstraint
	// KindExecutionPrecondition is an invalid command, timeout, retry or environment value.
	KindExecutionPrecondition
)

var kindNames = map[Kind]string{
	KindSchemaViolation:       "SchemaViolation",
	KindUnknownConstruct:      "UnknownConstruct",
	KindCircularDependency:    "CircularDependency",
	KindTransformError:        "TransformError",
	KindDuplicateIdentifier:   "DuplicateIdentifier",
	KindUndefinedReference:    "UndefinedReference",
	KindStructuralConstraint:  "StructuralConstraintViolation",
	KindExecutionPrecondition: "ExecutionPrecondition",
}

// String returns the canonical name of the kind, e.g. "UndefinedReference".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets kinds appear by name in JSON reports.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Schema violation details. They refine KindSchemaViolation.
const (
	DetailRequired     = "required"
	DetailTypeMismatch = "type_mismatch"
	DetailOneOf        = "one_of"
	DetailRange        = "range"
)
