// Package expect implements golden-file assertions for Go tests.
//
// Each assertion writes the value under test to an "actual" file and
// compares it with an "expected" file next to the test source:
//
//	<dir>/.expect/<source file stem>/<TestName>.actual.<ext>
//	<dir>/.expect/<source file stem>/<TestName>.expect.<ext>
//
// The .expect directory must be created once per package (see the expect
// CLI's init command). On the first run of a test its expected file does
// not exist yet; it is created as a copy of the actual file and the
// assertion passes. Review the new baseline with version control.
//
//	func TestRender(t *testing.T) {
//		e := expect.New(t)
//		e.AssertText(t, render(), "html")
//		expect.AssertValue(t, e, parse(input))
//	}
//
// Structured values are serialized with the configured codec (JSON by
// default) and compared structurally with go-cmp. Mismatches are reported as
// labeled Actual/Expected blocks; for sequences every mismatching index is
// reported.
package expect
