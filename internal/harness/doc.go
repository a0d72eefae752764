// Package harness runs sync scenarios as executable contract tests.
//
// A scenario describes a small source tree, one sync request over it, and
// what the tree must look like afterwards. The harness runs the request
// through the real engine against an in-memory store, so a scenario
// exercises parsing, emission, and rewriting end to end.
//
// # Scenario Format
//
//	name: class_to_argparse
//	description: "A class field becomes a required flag"
//	files:
//	  config.py: |
//	    class Config(object):
//	        dataset_name: str
//	options:
//	  carry_defaults: true
//	sync:
//	  truth: class
//	  class: [{file: config.py}]
//	  argparse: [{file: cli.py}]
//	expect:
//	  written: [cli.py]
//	assertions:
//	  - type: file_contains
//	    file: cli.py
//	    text: 'required=True'
//
// A property sync uses a properties step instead:
//
//	properties:
//	  source_file: mod.py
//	  source: MyClass.tfds_dir
//	  target_file: mod.py
//	  targets: [other_func.tfds_dir]
//
// Unknown keys are rejected so that typos fail loudly.
//
// # Assertion Types
//
//   - file_contains: the file contains text
//   - file_not_contains: the file does not contain text
//   - file_equals: the file is exactly text
//   - file_absent: the file was never created
//   - warning_count: the run reported exactly count warnings
//
// # Deterministic Testing
//
// Every scenario runs with a fixed run id and a fresh store, so its
// snapshot (see Snapshot) is byte-for-byte reproducible and can be kept as
// a golden file under testdata/golden.
package harness
