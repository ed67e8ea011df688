package gomod

import "testing"

func TestRestoreGoDirective(t *testing.T) {
	tests := map[string]struct {
		orig    string
		updated string
		want    string
	}{
		"unchanged directive is left alone": {
			orig:    "module m\n\ngo 1.21\n\nrequire a.com/b v1.0.0\n",
			updated: "module m\n\ngo 1.21\n\nrequire a.com/b v1.1.0\n",
			want:    "module m\n\ngo 1.21\n\nrequire a.com/b v1.1.0\n",
		},
		"bumped directive reverts to the original": {
			orig:    "module m\n\ngo 1.21\n\nrequire a.com/b v1.0.0\n",
			updated: "module m\n\ngo 1.22.4\n\nrequire a.com/b v1.1.0\n",
			want:    "module m\n\ngo 1.21\n\nrequire a.com/b v1.1.0\n",
		},
		"injected directive is removed when the original had none": {
			orig:    "module m\n\nrequire a.com/b v1.0.0\n",
			updated: "module m\n\ngo 1.22.4\n\nrequire a.com/b v1.1.0\n",
			want:    "module m\n\nrequire a.com/b v1.1.0\n",
		},
		"dropped directive is reinserted after the module statement": {
			orig:    "module m\n\ngo 1.21\n\nrequire a.com/b v1.0.0\n",
			updated: "module m\n\nrequire a.com/b v1.1.0\n",
			want:    "module m\n\ngo 1.21\n\nrequire a.com/b v1.1.0\n",
		},
		"no directive on either side": {
			orig:    "module m\n\nrequire a.com/b v1.0.0\n",
			updated: "module m\n\nrequire a.com/b v1.1.0\n",
			want:    "module m\n\nrequire a.com/b v1.1.0\n",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := restoreGoDirective(tc.orig, tc.updated)
			if got != tc.want {
				t.Errorf("restoreGoDirective:\ngot:\n%s\nwant:\n%s", got, tc.want)
			}

			// Idempotence: a second pass must change nothing.
			if again := restoreGoDirective(tc.orig, got); again != got {
				t.Errorf("restoreGoDirective is not idempotent:\nfirst:\n%s\nsecond:\n%s", got, again)
			}
		})
	}
}
