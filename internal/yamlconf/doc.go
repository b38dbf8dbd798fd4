// Package yamlconf loads plugin manifests written in YAML. It produces the
// same format-agnostic model as the HCL loader:
//
//	plugins:
//	  - name: com.example.lint
//	    sequences:
//	      - phase: transforming
//	        passes:
//	          - name: com.example.lint.check
//	            handler: print
//	            before_plugin: [com.example.pack]
//	            config:
//	              message: checking
//	    constraints:
//	      - first: com.example.lint.check
//	        second: com.example.pack.bundle
//	        kind: mandatory
package yamlconf
