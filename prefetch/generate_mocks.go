//go:generate mockgen -destination=mock_child.go -package=prefetch github.com/sarchlab/banditprefetch/prefetch Child

package prefetch
