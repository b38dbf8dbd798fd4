// Package hcl loads plugin manifests written in HCL.
//
//	plugin "com.example.lint" {
//	  display_name = "Linter"
//
//	  sequence "transforming" {
//	    pass "com.example.lint.check" {
//	      handler       = "print"
//	      before_plugin = ["com.example.pack"]
//	      config        = { message = "checking" }
//	    }
//	  }
//
//	  constraint {
//	    first  = "com.example.lint.check"
//	    second = "com.example.pack.bundle"
//	    kind   = "advisory"
//	  }
//	}
//
// Every block records the file and line it was declared at, so constraint
// diagnostics point back into the manifest.
package hcl
