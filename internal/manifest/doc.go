// Package manifest parses language manifests: HCL files that declare the
// shape of a language's blocks.
//
//	language "pipeline" {
//	  field "name" { type = string }
//
//	  entity "task" {
//	    section    = "tasks"
//	    identifier = "name"
//
//	    field "timeout" {
//	      type    = positive_integer
//	      default = 60
//	    }
//	    field "depends_on" { type = list(atom) }
//
//	    entity "on_failure" {
//	      singleton = true
//	      field "action" {
//	        type     = one_of(halt, continue, retry)
//	        required = true
//	      }
//	    }
//	  }
//	}
//
// Type expressions are the primitive keywords (any, atom, string, bool,
// integer, positive_integer, non_negative_integer, module_reference) and the
// constructors list(T), map(V), map(K, V), one_of(v...) and
// keyword_list({ name = T, ... }). An entity with `recursive = true` accepts
// nested blocks of its own kind.
package manifest
