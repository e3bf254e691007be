/*
Package corspolicy evaluates HTTP requests against a
[Cross-Origin Resource Sharing (CORS)] policy and produces the CORS
response headers that such requests call for.

A [Policy] is built once, from [Options], by [NewPolicy]; all
configuration mistakes are detected at that point and reported together
(see package [github.com/jub0bs/corspolicy/cfgerrors]). The resulting
policy is immutable and safe for concurrent use.

Requests are evaluated by [*Policy.Evaluate], which classifies them
(see [Classify]) as non-CORS, [CORS-preflight], or "actual" CORS requests,
and either returns a [*Response] to [*Response.Merge] into the response
under construction or rejects them with a [*RequestError].
Most users will not call Evaluate directly but will instead rely on one
of the following [net/http] integrations:

  - [*Policy.Wrap], which answers preflight requests itself and decorates
    responses to actual requests;
  - [*Policy.Guard], which leaves it to a [GuardedHandler] to decide
    whether and when to merge the CORS headers;
  - [*Policy.CatchAllOptions], meant to be registered for OPTIONS on every
    route of a router that dispatches on method.

Care is required for CORS to work as intended:

  - Because [CORS-preflight] requests use [OPTIONS] as their method,
    you [SHOULD NOT] prevent OPTIONS requests from reaching your policy.
  - Because [CORS-preflight requests are not authenticated], authentication
    [SHOULD NOT] take place "ahead of" a policy.
  - Intermediaries [SHOULD NOT] alter the CORS response headers that this
    package produces; they [MAY] alter the value of the [Vary] header but
    they [MUST] preserve all of its elements.
  - Multiple CORS policies [MUST NOT] be applied to the same request.

[CORS-preflight requests are not authenticated]: https://fetch.spec.whatwg.org/#cors-protocol-and-credentials
[CORS-preflight]: https://developer.mozilla.org/en-US/docs/Glossary/Preflight_request
[Cross-Origin Resource Sharing (CORS)]: https://developer.mozilla.org/en-US/docs/Web/HTTP/CORS
[MAY]: https://www.ietf.org/rfc/rfc2119.txt
[MUST NOT]: https://www.ietf.org/rfc/rfc2119.txt
[MUST]: https://www.ietf.org/rfc/rfc2119.txt
[OPTIONS]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Methods/OPTIONS
[SHOULD NOT]: https://www.ietf.org/rfc/rfc2119.txt
[Vary]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Vary
*/
package corspolicy
