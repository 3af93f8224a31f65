package malloc

import "errors"

// ErrorConfiguration invalid parameters supplied to Init or settings.
var ErrorConfiguration = errors.New("malloc.configuration")

// ErrorAlreadyInitialized Init called twice without Destroy.
var ErrorAlreadyInitialized = errors.New("malloc.alreadyinitialized")

// ErrorNotInitialized operation on a service that is not initialized.
var ErrorNotInitialized = errors.New("malloc.notinitialized")

// ErrorOutofMemory backing memory could not be allocated.
var ErrorOutofMemory = errors.New("malloc.outofmemory")

// ErrorInvalidRequest number of chunks requested is out of bounds.
var ErrorInvalidRequest = errors.New("malloc.invalidrequest")

// ErrorResourceBusy chunks are still outstanding, retry after
// releasing them.
var ErrorResourceBusy = errors.New("malloc.resourcebusy")

// ErrorAborted pending request was aborted before it could be satisfied.
var ErrorAborted = errors.New("malloc.aborted")

// ErrorRequestInUse request is still pending with the service.
var ErrorRequestInUse = errors.New("malloc.requestinuse")
