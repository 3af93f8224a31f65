package malloc

import "fmt"

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}

func isaligned(n int64) bool {
	return (n & (Alignment - 1)) == 0
}

func fmterror(err error, fmsg string, args ...interface{}) error {
	return fmt.Errorf("%w: "+fmsg, append([]interface{}{err}, args...)...)
}
