/*
Package smartcontract contains functions to deal with widely used scripts:
standard signature and multisignature verification scripts, their parsing,
contract hash calculation and transaction entry scripts that call deployed
contracts. Parameter and ParamType help to pass user-supplied arguments
into such scripts.
*/
package smartcontract
