package sms

import (
	"strings"
	"testing"
)

func TestMaskCredentials(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"password in query",
			"http://gw/send?user=acme&password=s3cret&to=017",
			"http://gw/send?user=acme&password=***&to=017",
		},
		{
			"password last",
			"http://gw/send?user=acme&password=s3cret",
			"http://gw/send?user=acme&password=***",
		},
		{
			"no password",
			"http://gw/send?user=acme&to=017",
			"http://gw/send?user=acme&to=017",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MaskCredentials(tc.in); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMaskCredentials_NeverLeaksSecret(t *testing.T) {
	got := MaskCredentials("http://gw/send?password=topsecret&msg=hi")
	if strings.Contains(got, "topsecret") {
		t.Fatalf("secret leaked: %q", got)
	}
}
