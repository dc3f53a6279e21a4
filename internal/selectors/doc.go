// Package selectors loads named selector definitions from YAML.
//
// A selectors file holds a list of definitions:
//
//	selectors:
//	  - name: nightly_models
//	    description: models refreshed every night
//	    default: true
//	    definition:
//	      union:
//	        - method: tag
//	          value: nightly
//	          children: true
//	        - exclude:
//	            - resource_type:seed
//
// A definition is a selection string, a leaf mapping with method and value
// keys, a single-key shorthand such as `tag: nightly`, or a mapping with a
// union, intersection, or exclude list. The selector method references
// another named selector; references are resolved when the file is loaded.
package selectors
