package downmix

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestDownmix(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Downmix Suite")
}
